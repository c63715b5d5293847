package dto

// PageRequest paginación del histórico. Limit 0 devuelve todo desde Offset.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Bounds devuelve el rango [start, end) a aplicar sobre n elementos.
func (p PageRequest) Bounds(n int) (start, end int) {
	start = p.Offset
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end = n
	if p.Limit > 0 && start+p.Limit < n {
		end = start + p.Limit
	}
	return start, end
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
