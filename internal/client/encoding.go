package client

import (
	"bytes"
	"encoding/base64"

	"github.com/go-resty/resty/v2"

	"careerkit-backend/internal/keys"
)

// encoding is the wire form chosen for one dispatch. It is selected once,
// right after key resolution, from the credential's origin.
type encoding interface {
	apply(r *resty.Request)
}

// multipartEncoding ships the resume as a raw binary part and carries the
// server-configured credential in the x-api-key side channel, letting the
// server trust its own key without re-deriving it from the body.
type multipartEncoding struct {
	payload Payload
	key     string
}

func (e multipartEncoding) apply(r *resty.Request) {
	r.SetMultipartField("resume", e.payload.FileName, "application/pdf", bytes.NewReader(e.payload.File))
	r.SetFormData(map[string]string{
		"jobTitle":       e.payload.JobTitle,
		"jobDescription": e.payload.JobDescription,
	})
	if e.key != "" {
		r.SetHeader("x-api-key", e.key)
	}
}

// jsonEncoding re-encodes the resume as base64 inside a JSON document and
// embeds the credential itself, so the endpoint can authenticate with a
// caller-provided key and no side-channel trust.
type jsonEncoding struct {
	payload Payload
	key     string
}

type jsonFilePart struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

type jsonBody struct {
	Resume         jsonFilePart `json:"resume"`
	JobTitle       string       `json:"jobTitle"`
	JobDescription string       `json:"jobDescription"`
	APIKey         string       `json:"apiKey,omitempty"`
}

func (e jsonEncoding) apply(r *resty.Request) {
	r.SetHeader("Content-Type", "application/json")
	r.SetBody(jsonBody{
		Resume: jsonFilePart{
			Name: e.payload.FileName,
			Type: "application/pdf",
			Data: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(e.payload.File),
		},
		JobTitle:       e.payload.JobTitle,
		JobDescription: e.payload.JobDescription,
		APIKey:         e.key,
	})
}

// encodingFor picks the wire form: the server-configured default goes out
// as multipart, every other origin as base64 JSON.
func encodingFor(p Payload, cred keys.Credential) encoding {
	if cred.Origin == keys.OriginServer {
		return multipartEncoding{payload: p, key: cred.Key}
	}
	return jsonEncoding{payload: p, key: cred.Key}
}
