package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// remoteError carries the server's message while matching a sentinel
// through errors.Is.
type remoteError struct {
	sentinel error
	msg      string
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.sentinel }

func wrapRemote(sentinel error, msg string) error {
	if msg == "" || msg == sentinel.Error() {
		return sentinel
	}
	if !strings.HasPrefix(msg, sentinel.Error()) {
		msg = sentinel.Error() + ": " + msg
	}
	return &remoteError{sentinel: sentinel, msg: msg}
}

// mapError turns a gRPC status into one of the sentinel errors callers
// match with errors.Is. Anything unclassified is wrapped as is.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return wrapRemote(ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Canceled:
		return wrapRemote(context.Canceled, st.Message())
	case codes.NotFound:
		return wrapRemote(common.ErrorNotFound, st.Message())
	case codes.InvalidArgument:
		return wrapRemote(common.ErrValidation, st.Message())
	case codes.AlreadyExists:
		return wrapRemote(common.ErrAlreadyExists, st.Message())
	case codes.FailedPrecondition:
		if strings.Contains(st.Message(), common.ErrNoImage.Error()) {
			return wrapRemote(common.ErrNoImage, st.Message())
		}
		return wrapRemote(common.ErrInvalidReference, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
