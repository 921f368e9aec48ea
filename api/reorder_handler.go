package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/metrics"
)

type reorderHandler struct {
	responder Responder
	logger    zerolog.Logger
	reorderer *database.Reorderer
}

func newReorderHandler(reorderer *database.Reorderer) reorderHandler {
	logger := log.With().Str("handlerName", "reorderHandler").Logger()

	return reorderHandler{
		responder: NewResponder(logger),
		logger:    logger,
		reorderer: reorderer,
	}
}

// reorderItemInput keeps the raw values so that each one can be reported
// under its own index
type reorderItemInput struct {
	ID    json.RawMessage `json:"id"`
	Order json.RawMessage `json:"order"`
}

type reorderInput struct {
	Items []reorderItemInput `json:"items"`
}

// ReorderResponse confirms a batch reorder
type ReorderResponse struct {
	Message    string `json:"message"`
	Collection string `json:"collection"`
	Updated    int    `json:"updated"`
}

// reorder applies a batch of display orders to one collection
// @Summary Reorder collection
// @Description Sets display_order for the listed records only. All ids are checked before anything is written
// @Tags Admin
// @Accept json
// @Produce json
// @Param collection path string true "projects, technologies, features, skills, experiences, educations, certifications or testimonials"
// @Param items body reorderInput true "Items with id and order"
// @Success 200 {object} ReorderResponse
// @Failure 404 {object} ErrorResponse "Not Found - Unknown collection"
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Invalid items"
// @Router /admin/reorder/{collection} [post]
func (h reorderHandler) reorder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection := chi.URLParam(r, "collection")
		if !database.IsReorderable(collection) {
			h.responder.WriteError(w, errs.NewUnknownCollectionError(collection))
			return
		}

		var in reorderInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		items, err := parseOrderItems(in.Items)
		if err != nil {
			metrics.RecordReorder(collection, err)
			h.responder.WriteError(w, err)
			return
		}

		err = h.reorderer.Reorder(collection, items)
		metrics.RecordReorder(collection, err)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("collection", collection).Int("items", len(items)).Msg("Collection reordered")
		h.responder.WriteJSON(w, ReorderResponse{
			Message:    "Order updated",
			Collection: collection,
			Updated:    len(items),
		})
	}
}

// parseOrderItems checks every entry and reports all failures at once
func parseOrderItems(raw []reorderItemInput) ([]database.OrderItem, error) {
	if len(raw) == 0 {
		return nil, errs.NewFieldValidationError("items", "This field is required")
	}

	fields := make(map[string]string)
	items := make([]database.OrderItem, 0, len(raw))
	for i, item := range raw {
		id, idErr := parseInteger(item.ID)
		switch {
		case idErr != "":
			fields[fmt.Sprintf("items.%d.id", i)] = idErr
		case id <= 0:
			fields[fmt.Sprintf("items.%d.id", i)] = "Must be a positive integer"
		}

		order, orderErr := parseInteger(item.Order)
		if orderErr != "" {
			fields[fmt.Sprintf("items.%d.order", i)] = orderErr
		}

		if idErr == "" && orderErr == "" && id > 0 {
			items = append(items, database.OrderItem{ID: uint(id), Order: int(order)})
		}
	}
	if len(fields) > 0 {
		return nil, errs.NewValidationError(fields)
	}
	return items, nil
}

// parseInteger accepts JSON numbers and numeric strings without a fraction
func parseInteger(raw json.RawMessage) (int64, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, "This field is required"
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, "Must be an integer"
	}
	v, err := n.Int64()
	if err != nil {
		return 0, "Must be an integer"
	}
	return v, ""
}
