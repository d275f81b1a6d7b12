package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/dvloznov/budget-health/internal/pipeline"
)

// errNoFile is returned when a multipart request has no "file" part.
var errNoFile = errors.New("no file uploaded")

// multipartMemory is how much of a form ParseMultipartForm keeps in memory.
const multipartMemory = 8 << 20

// readUpload returns the name and bytes of the "file" form part. Files over
// maxBytes fail with pipeline.ErrFileTooLarge.
func readUpload(r *http.Request, maxBytes int64) (string, []byte, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if tooLarge(err) {
			return "", nil, pipeline.ErrFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return "", nil, errNoFile
		}
		return "", nil, err
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, errNoFile
	}
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", nil, err
	}
	if int64(len(data)) > maxBytes {
		return "", nil, pipeline.ErrFileTooLarge
	}
	return header.Filename, data, nil
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || errors.Is(err, pipeline.ErrFileTooLarge)
}
