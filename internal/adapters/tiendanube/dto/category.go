package dto

type CategoryDto struct {
	ID     int64             `json:"id"`
	Name   map[string]string `json:"name"`
	Parent *int64            `json:"parent"`
}
