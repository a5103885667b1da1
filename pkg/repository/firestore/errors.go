package firestore

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/celokit/celokit-assist/pkg/domain/model"
)

// mapStoreError translates Firestore gRPC failures into the pipeline failure
// taxonomy. Anything unrecognized counts as an unavailable upstream.
func mapStoreError(err error, msg string) error {
	sentinel := model.ErrUpstreamUnavailable

	switch status.Code(err) {
	case codes.NotFound:
		sentinel = model.ErrCollectionNotFound
	case codes.ResourceExhausted:
		sentinel = model.ErrRateLimited
	case codes.InvalidArgument:
		// Firestore rejects documents over its hard size limit with
		// InvalidArgument mentioning the entity size
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "size") || strings.Contains(lower, "too large") {
			sentinel = model.ErrPayloadTooLarge
		}
	}

	return goerr.Wrap(sentinel, msg, goerr.V("cause", err.Error()))
}
