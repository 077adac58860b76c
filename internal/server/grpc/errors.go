package grpc

import (
	"errors"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorUnauthenticated, codes.Unauthenticated},
	{common.ErrSelfReference, codes.InvalidArgument},
	{common.ErrValidation, codes.InvalidArgument},
	{common.ErrInvalidPagination, codes.InvalidArgument},
	{common.ErrDuplicateRelationship, codes.AlreadyExists},
	{common.ErrorAlreadyExists, codes.AlreadyExists},
	{common.ErrUnknownUser, codes.NotFound},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrForbidden, codes.PermissionDenied},
	{common.ErrInvalidTransition, codes.FailedPrecondition},
	{common.ErrUnavailable, codes.Unavailable},
}

// toStatus maps a service error onto a gRPC status. Internal errors are
// reported without detail.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			if e.code == codes.Unavailable {
				return status.Error(e.code, e.err.Error())
			}
			return status.Error(e.code, err.Error())
		}
	}
	return status.Error(codes.Internal, "internal error")
}
