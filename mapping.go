package stellarforge

import (
	"fmt"
	"net/http"

	"github.com/stellarforge/stellarforge-go/pkg/endpoint"
	"github.com/stellarforge/stellarforge-go/pkg/errors"
	"github.com/stellarforge/stellarforge-go/pkg/types"
)

// requiredStarFields must be present in a 201 body.
var requiredStarFields = []string{types.FieldID, types.FieldRegisteredAt}

// mapResponse converts an endpoint response into a Star or a typed error.
func mapResponse(resp *endpoint.Response) (*Star, error) {
	status := resp.StatusCode

	switch {
	case status == http.StatusCreated:
		return parseStar(resp.Body)
	case status == http.StatusUnauthorized:
		return nil, errors.NewAuthenticationError(types.ParseErrorResponse(resp.Body).Message)
	case status == http.StatusBadRequest:
		return nil, errors.NewInvalidInputError(types.ParseErrorResponse(resp.Body).Message)
	case status >= http.StatusInternalServerError:
		return nil, errors.NewServiceUnavailableError(status, types.ParseErrorResponse(resp.Body).Message)
	default:
		return nil, errors.NewUnexpectedError(status, resp.Body)
	}
}

func parseStar(body []byte) (*Star, error) {
	parsed, err := types.ParseRegistrationResponse(body)
	if err != nil {
		return nil, errors.Wrap(err, http.StatusCreated, "malformed registration response")
	}

	star := types.NewStar(parsed)
	for _, field := range requiredStarFields {
		if !star.Has(field) {
			return nil, errors.Wrap(nil, http.StatusCreated,
				fmt.Sprintf("malformed registration response: missing %s", field))
		}
	}
	return star, nil
}
