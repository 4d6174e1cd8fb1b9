package http

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
	customerports "github.com/Apurer/ecommerce-api-server/internal/domains/customers/ports"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/application"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
	apierrors "github.com/Apurer/ecommerce-api-server/internal/shared/errors"
)

// orderResponder maps order service errors to RFC 7807 problem responses.
var orderResponder = apierrors.NewChainedResponder("", mapOrderServiceError)

func respondOrderServiceError(c *gin.Context, err error) {
	orderResponder.RespondError(c, err)
}

func respondBindError(c *gin.Context, err error) {
	apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
}

func respondMissingCaller(c *gin.Context) {
	apierrors.Respond(c, apierrors.ErrBadRequest.
		WithDetail(fmt.Sprintf("missing required %s header", HeaderUserID)))
}

func respondInvalidCaller(c *gin.Context, raw string) {
	apierrors.Respond(c, apierrors.ErrBadRequest.
		WithDetail(fmt.Sprintf("%s header %q is not a valid UUID", HeaderUserID, raw)))
}

func respondInvalidParam(c *gin.Context, name, raw string) {
	apierrors.Respond(c, apierrors.ErrValidation.
		WithDetail(fmt.Sprintf("parameter %s has invalid value %q", name, raw)).
		WithExtension("parameter", name))
}

// mapOrderServiceError translates the error taxonomy of the order use cases.
// Contention after retry exhaustion is reported distinctly from a plain
// availability failure: the former may succeed on retry, the latter will not
// until stock is replenished.
func mapOrderServiceError(err error) (apierrors.ProblemDetail, bool) {
	var conflict *application.StockConflictError
	switch {
	case errors.As(err, &conflict):
		return apierrors.NewStockContentionProblem(conflict.Error()).
			WithExtension("orderId", conflict.OrderID).
			WithExtension("productId", conflict.ProductID), true
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).
			WithExtension("resourceType", "order"), true
	case errors.Is(err, customerports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).
			WithExtension("resourceType", "customer"), true
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).
			WithExtension("resourceType", "product"), true
	case errors.Is(err, catalogdomain.ErrInsufficientStock):
		return apierrors.NewInsufficientStockProblem(err.Error()), true
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidCancellation),
		errors.Is(err, catalogports.ErrVersionConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrMissingCustomer):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrStatusNotConfigured):
		return apierrors.ErrInternal.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
