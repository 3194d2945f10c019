package dto

import (
	"chat-budgeting-be/pkg/nl2sql/resultset"
)

type NL2SQLRequest struct {
	Prompt      string `json:"prompt" validate:"required,max=2000"`
	Model       string `json:"model" validate:"required"`
	Nip         string `json:"nip" validate:"required,max=32"`
	KodeUnit    string `json:"kode_unit" validate:"max=32"`
	DisplayName string `json:"display_name" validate:"max=128"`
	RoomId      int64  `json:"room_id" validate:"required,gt=0"`
}

// NL2SQLResponse omits reasoning on the data-only endpoint.
type NL2SQLResponse struct {
	Query     string          `json:"query"`
	DataRaw   []resultset.Row `json:"data_raw"`
	Reasoning *string         `json:"reasoning,omitempty"`
}
