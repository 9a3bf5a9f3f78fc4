// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/storekeep/internal/platform/request"
	"github.com/taibuivan/storekeep/internal/platform/respond"
	"github.com/taibuivan/storekeep/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for products and stock movements.
type Handler struct {
	service *Service
}

// NewHandler constructs a new inventory [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ProductRoutes returns the router mounted at /api/product.
func (handler *Handler) ProductRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listProducts)
	router.Get("/search/{name}", handler.searchProducts)
	router.Post("/", handler.createProduct)
	router.Put("/{id}", handler.updateProduct)

	return router
}

// RecordRoutes returns the router mounted at /api/record.
func (handler *Handler) RecordRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/all", handler.listRecords(""))
	router.Get("/income", handler.listRecords(KindIncome))
	router.Get("/outcome", handler.listRecords(KindOutcome))
	router.Get("/income/mostentered", handler.topProducts(KindIncome))
	router.Get("/outcome/mostconsumed", handler.topProducts(KindOutcome))
	router.Get("/summary", handler.monthlySummary)

	router.Post("/income", handler.createRecord(KindIncome))
	router.Post("/outcome", handler.createRecord(KindOutcome))
	router.Put("/{id}", handler.updateRecord)
	router.Delete("/{id}", handler.deleteRecord)

	return router
}

// # Product Endpoints

/*
GET /api/product.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Product: Paginated list ordered by name
*/
func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	products, total, err := handler.service.ListProducts(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, paginationParams.Meta(total))
}

/*
GET /api/product/search/{name}.

Response:
  - 200: []Product: At most four matches
  - 400: Validation: Empty name
*/
func (handler *Handler) searchProducts(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.SearchProducts(request.Context(), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, products)
}

type productRequest struct {
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Stock int64  `json:"stock"`
}

/*
POST /api/product.

Response:
  - 201: Product: Created entity
  - 400: Validation: Invalid input
  - 409: Conflict: Name already used
*/
func (handler *Handler) createProduct(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input productRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.CreateProduct(request.Context(), ProductInput(input), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

/*
PUT /api/product/{id}.

Response:
  - 200: Product: Updated entity
  - 404: NotFound: Unknown product
  - 409: Conflict: Name already used
*/
func (handler *Handler) updateProduct(writer http.ResponseWriter, request *http.Request) {
	var input productRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.UpdateProduct(request.Context(), requestutil.Param(request, "id"), ProductInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

// # Record Endpoints

func (handler *Handler) listRecords(kind RecordKind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		paginationParams := pagination.FromRequest(request)

		records, total, err := handler.service.ListRecords(request.Context(), RecordFilter{Kind: kind}, paginationParams.Limit, paginationParams.Offset())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.Paginated(writer, records, paginationParams.Meta(total))
	}
}

func (handler *Handler) topProducts(kind RecordKind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		totals, err := handler.service.TopProducts(request.Context(), kind)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, totals)
	}
}

/*
GET /api/record/summary.

Request:
  - year: int
  - month: int (1-12)

Response:
  - 200: MonthlySummary: Income and outcome totals per product
  - 400: Validation: Missing or out-of-range year or month
*/
func (handler *Handler) monthlySummary(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	// Unparseable values become zero and fail validation.
	year, _ := strconv.Atoi(query.Get(FieldYear))
	month, _ := strconv.Atoi(query.Get(FieldMonth))

	summary, err := handler.service.MonthlySummary(request.Context(), year, month)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}

type recordRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Date      string `json:"date"`
	Note      string `json:"note"`
}

type recordResponse struct {
	Record  *Record  `json:"record"`
	Product *Product `json:"product"`
}

/*
POST /api/record/income and POST /api/record/outcome.

Description: The acting user comes from the session, never from the body.

Response:
  - 201: {record, product}: Movement and the product's new stock
  - 400: Validation: Invalid input
  - 404: NotFound: Unknown product
  - 422: Unprocessable: Outcome exceeds stock
*/
func (handler *Handler) createRecord(kind RecordKind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		userID, err := requestutil.RequiredUserID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var input recordRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		record, product, err := handler.service.RecordMovement(request.Context(), kind, RecordInput(input), userID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.Created(writer, recordResponse{Record: record, Product: product})
	}
}

/*
PUT /api/record/{id}.

Description: Product, quantity, date and note are replaced; the kind is fixed.

Response:
  - 200: {record, product}: Movement and the stock of the product it now belongs to
  - 400: Validation: Invalid input
  - 404: NotFound: Unknown record or product
  - 422: Unprocessable: Either product would go negative
*/
func (handler *Handler) updateRecord(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input recordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, product, err := handler.service.UpdateRecord(request.Context(), requestutil.Param(request, "id"), RecordInput(input), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, recordResponse{Record: record, Product: product})
}

/*
DELETE /api/record/{id}.

Response:
  - 200: Product: The product with reverted stock
  - 404: NotFound: Unknown record
  - 422: Unprocessable: Reverting an income would make stock negative
*/
func (handler *Handler) deleteRecord(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.DeleteRecord(request.Context(), requestutil.Param(request, "id"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}
