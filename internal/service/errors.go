package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("validation")      // 400
	ErrNotFound        = errors.New("not found")       // 404
	ErrUnauthenticated = errors.New("unauthenticated") // 401
	ErrUpstreamAuth    = errors.New("upstream auth")   // 401
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
