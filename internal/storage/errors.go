package storage

import (
	"errors"
	"fmt"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/minio/minio-go/v7"
)

var (
	ErrObjectNotFound = &model.Error{Kind: model.KindNotFound, Detail: "artifact not found"}
	ErrInvalidKey     = &model.Error{Kind: model.KindValidation, Detail: "invalid artifact key"}
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return ErrObjectNotFound
	case "NoSuchBucket":
		return ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
