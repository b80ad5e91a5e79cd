package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	sharedDomain "github.com/davicafu/hexatransactions/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexatransactions/internal/shared/infra/platform/query"
)

// Límites de paginación.
const (
	MinPage      = 1
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 20
)

// Formatos de fecha aceptados en startDate / endDate. Los que no llevan zona
// horaria se interpretan en UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// RawListParams son los parámetros tal y como llegan en la query string.
type RawListParams struct {
	StartDate string
	EndDate   string
	Status    string
	Substatus string
	Page      string
	Limit     string
}

// ListQuery es la consulta ya normalizada: fechas válidas o nil, página y
// límite dentro de rango.
type ListQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
	Substatus string
	Page      int
	Limit     int
}

// NewListQuery construye la consulta a partir de parámetros no confiables.
// Nunca falla: lo que no se puede interpretar se trata como ausente.
func NewListQuery(raw RawListParams, defaultLimit int) ListQuery {
	return ListQuery{
		StartDate: parseDate(raw.StartDate),
		EndDate:   parseDate(raw.EndDate),
		Status:    raw.Status,
		Substatus: raw.Substatus,
		Page:      parsePage(raw.Page),
		Limit:     parseLimit(raw.Limit, defaultLimit),
	}
}

// Skip es el número de documentos a saltar: (page-1)*limit, saturado.
func (q ListQuery) Skip() int64 {
	if q.Page <= MinPage || q.Limit <= 0 {
		return 0
	}
	pages := int64(q.Page - 1)
	if pages > math.MaxInt64/int64(q.Limit) {
		return math.MaxInt64
	}
	return pages * int64(q.Limit)
}

// Pagination traduce página/límite a offset.
func (q ListQuery) Pagination() sharedQuery.OffsetPagination {
	return sharedQuery.OffsetPagination{Limit: q.Limit, Offset: q.Skip()}
}

// Criteria devuelve la conjunción de los filtros presentes. Sin filtros se
// obtiene un criterio vacío, que casa con todo.
func (q ListQuery) Criteria() sharedDomain.Criteria {
	var criterias []sharedDomain.Criteria
	if q.StartDate != nil || q.EndDate != nil {
		criterias = append(criterias, CreatedAtRangeCriteria{Start: q.StartDate, End: q.EndDate})
	}
	if q.Status != "" {
		criterias = append(criterias, StatusCriteria{Status: q.Status})
	}
	if q.Substatus != "" {
		criterias = append(criterias, SubstatusCriteria{Substatus: q.Substatus})
	}
	return sharedDomain.And(criterias...)
}

// --- Helpers de parseo ---

func parsePage(raw string) int {
	page, ok := parseInt(raw)
	if !ok || page < MinPage {
		return MinPage
	}
	return page
}

func parseLimit(raw string, defaultLimit int) int {
	limit, ok := parseInt(raw)
	if !ok {
		limit = defaultLimit
	}
	return clamp(limit, MinLimit, MaxLimit)
}

// parseInt lee un signo opcional y los dígitos iniciales, ignorando el
// resto ("2.5" -> 2, "10abc" -> 10). Un valor fuera del rango de int
// satura en lugar de descartarse.
func parseInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	v, err := strconv.Atoi(raw[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
