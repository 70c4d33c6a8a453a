package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	return nil
}

// ListParams holds the shared offset/limit pagination query parameters.
type ListParams struct {
	From int `form:"from" binding:"omitempty,min=0"`
	Size int `form:"size" binding:"omitempty,min=1"`
}
