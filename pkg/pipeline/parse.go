package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

// MaxRequestBytes bounds the size of a request document.
const MaxRequestBytes = 16 << 20

// ReadRequestFile reads a request document from path. The document is either
// a single request object or an array of requests.
func ReadRequestFile(path string) ([]Request, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "request file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return DecodeRequests(f)
}

// DecodeRequests decodes a single request or an array of requests. Unknown
// fields are rejected so typos in option names do not pass silently.
func DecodeRequests(r io.Reader) ([]Request, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxRequestBytes+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read request")
	}
	if len(data) > MaxRequestBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request too large (max %d bytes)", MaxRequestBytes)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty request document")
	}

	if trimmed[0] == '[' {
		var reqs []Request
		if err := decodeStrict(trimmed, &reqs); err != nil {
			return nil, err
		}
		if len(reqs) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request batch is empty")
		}
		return reqs, nil
	}

	var req Request
	if err := decodeStrict(trimmed, &req); err != nil {
		return nil, err
	}
	return []Request{req}, nil
}

// DecodeRequest decodes exactly one request object.
func DecodeRequest(r io.Reader) (Request, error) {
	var req Request
	dec := json.NewDecoder(io.LimitReader(r, MaxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return req, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}
