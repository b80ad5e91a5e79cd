package query

// ---------- Tipos de paginación / ordenamiento ----------

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int64
}

// Sort indica campo y dirección.
type Sort struct {
	Field string // ej. "createdAt"
	Desc  bool
}
