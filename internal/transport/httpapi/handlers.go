package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wordnest/wordnest-backend/internal/adapter/postgres/wordcard"
	"github.com/wordnest/wordnest-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type enrichService interface {
	Ensure(ctx context.Context, vcID, wordHint string) (*domain.WordCard, error)
	SearchByWord(ctx context.Context, word string) (*domain.WordCard, error)
	Suggest(ctx context.Context, prefix string) ([]string, error)
}

type cardLister interface {
	List(ctx context.Context, filter wordcard.Filter) (*wordcard.Page, error)
	Sources(ctx context.Context) ([]string, error)
}

// Handler serves the enrichment JSON API.
type Handler struct {
	log    *slog.Logger
	enrich enrichService
	cards  cardLister
}

// NewHandler creates a Handler.
func NewHandler(log *slog.Logger, enrich enrichService, cards cardLister) *Handler {
	return &Handler{
		log:    log.With("component", "httpapi"),
		enrich: enrich,
		cards:  cards,
	}
}

// cardResponse is the wire form of a word card. RawTranslation is internal
// state and never leaves the service.
type cardResponse struct {
	VCID        string    `json:"vc_id"`
	Word        string    `json:"word"`
	PhoneticUS  string    `json:"phonetic_us,omitempty"`
	PhoneticUK  string    `json:"phonetic_uk,omitempty"`
	Translation string    `json:"translation,omitempty"`
	Example     string    `json:"example,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	AudioUS     string    `json:"audio_us,omitempty"`
	AudioUK     string    `json:"audio_uk,omitempty"`
	Source      string    `json:"source,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCardResponse(c *domain.WordCard) cardResponse {
	return cardResponse{
		VCID:        c.VCID,
		Word:        c.Word,
		PhoneticUS:  c.PhoneticUS,
		PhoneticUK:  c.PhoneticUK,
		Translation: c.Translation,
		Example:     c.Example,
		ImageURL:    c.ImageURL,
		AudioUS:     c.AudioUS,
		AudioUK:     c.AudioUK,
		Source:      c.Source,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Suggest handles GET /api/words/suggest?q=pre.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	words, err := h.enrich.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

// Search handles GET /api/words/search?word=apple.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if word == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("word parameter is required"))
		return
	}

	card, err := h.enrich.SearchByWord(r.Context(), word)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(card))
}

// Ensure handles POST /api/words/{vcID}/ensure?word=hint.
func (h *Handler) Ensure(w http.ResponseWriter, r *http.Request) {
	vcID := chi.URLParam(r, "vcID")

	card, err := h.enrich.Ensure(r.Context(), vcID, r.URL.Query().Get("word"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(card))
}

// List handles GET /api/words with optional q, missing_image, source, page,
// page_size filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := intParam(q.Get("page"), 1)
	pageSize := intParam(q.Get("page_size"), 20)

	filter := wordcard.Filter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if search := q.Get("q"); search != "" {
		filter.Search = &search
	}
	switch q.Get("missing_image") {
	case "missing":
		v := false
		filter.HasImage = &v
	case "present":
		v := true
		filter.HasImage = &v
	}
	if source := q.Get("source"); source != "" {
		filter.Source = &source
	}

	result, err := h.cards.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]cardResponse, 0, len(result.Cards))
	for i := range result.Cards {
		items = append(items, toCardResponse(&result.Cards[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":     items,
		"total":     result.Total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Sources handles GET /api/words/sources.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.cards.Sources(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, sources)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("word not found"))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("word data temporarily unavailable"))
	default:
		h.log.ErrorContext(r.Context(), "internal error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func intParam(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
