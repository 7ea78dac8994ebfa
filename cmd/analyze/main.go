package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"careerkit-backend/internal/client"
	"careerkit-backend/internal/keys"
)

// analyze is the command-line front end: it keeps one persisted API key,
// picks a usable credential, dispatches a submission and prints the result.
func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Base URL of the careerkit API server")
	resumePath := flag.String("resume", "", "Path to resume PDF")
	jobTitle := flag.String("job-title", "", "Target job title")
	jdPath := flag.String("jd", "", "Path to job description text file")
	apiKey := flag.String("api-key", "", "API key for this run (overrides saved and server keys)")
	saveKey := flag.String("save-key", "", "Persist an API key for future runs and exit")
	clearKey := flag.Bool("clear-key", false, "Forget the persisted API key and exit")
	outPath := flag.String("out", "", "Path to write the JSON result (default stdout)")
	flag.Parse()

	store, err := openStore()
	if err != nil {
		exitErr("open key store: " + err.Error())
	}

	if *clearKey {
		if err := store.Clear(); err != nil {
			exitErr("clear key: " + err.Error())
		}
		fmt.Println("Saved API key cleared.")
		return
	}
	if strings.TrimSpace(*saveKey) != "" {
		key := strings.TrimSpace(*saveKey)
		if !keys.ValidFormat(key) {
			exitErr(`key does not look like a Gemini API key (expected "AIza" prefix, length > 30)`)
		}
		if err := store.Set(key); err != nil {
			exitErr("save key: " + err.Error())
		}
		fmt.Println("API key saved.")
		return
	}

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	if strings.TrimSpace(*jobTitle) == "" {
		exitErr("job title is required")
	}
	if strings.TrimSpace(*jdPath) == "" {
		exitErr("job description path is required")
	}

	resumeBytes, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr("read resume: " + err.Error())
	}
	jdBytes, err := os.ReadFile(*jdPath)
	if err != nil {
		exitErr("read job description: " + err.Error())
	}

	cred, ok := pickCredential(*apiKey, store)
	if !ok {
		exitErr("no API key available; pass -api-key, set GOOGLE_API_KEY, or run -save-key first")
	}

	payload := client.Payload{
		FileName:       filepath.Base(*resumePath),
		File:           resumeBytes,
		JobTitle:       strings.TrimSpace(*jobTitle),
		JobDescription: strings.TrimSpace(string(jdBytes)),
	}

	result, err := client.New(*serverURL).Dispatch(context.Background(), payload, cred)
	if err != nil {
		var cerr *client.ClassifiedError
		if errors.As(err, &cerr) {
			if cerr.RequiresAPIKey {
				exitErr(cerr.Message + "; save one with -save-key or pass -api-key")
			}
			if cerr.RetryAfter > 0 {
				exitErr(fmt.Sprintf("%s (retry after %s)", cerr.Message, cerr.RetryAfter))
			}
		}
		exitErr(err.Error())
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr("encode result: " + err.Error())
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, append(encoded, '\n'), 0o644); err != nil {
			exitErr("write result: " + err.Error())
		}
		fmt.Printf("Result written to %s\n", *outPath)
		return
	}
	fmt.Println(string(encoded))
}

// pickCredential applies the client-side priority: an explicit key for this
// run, then the operator's environment key, then the persisted one. The
// origin decides the dispatch encoding.
func pickCredential(flagKey string, store keys.Store) (keys.Credential, bool) {
	if key := strings.TrimSpace(flagKey); key != "" {
		return keys.Credential{Key: key, Origin: keys.OriginRequest}, true
	}
	if key := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); key != "" {
		return keys.Credential{Key: key, Origin: keys.OriginServer}, true
	}
	if key, ok := store.Get(); ok {
		return keys.Credential{Key: key, Origin: keys.OriginClient}, true
	}
	return keys.Credential{}, false
}

func openStore() (keys.Store, error) {
	dir, err := keys.DefaultStoreDir()
	if err != nil {
		return nil, err
	}
	return keys.NewFileStore(dir)
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
