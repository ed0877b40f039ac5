package dto

type ProjectRequest struct {
	Name string `json:"name"`
}
