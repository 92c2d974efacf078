package dto

type AskRequest struct {
	Question     string `json:"question" validate:"required"`
	OutputFormat string `json:"output_format" validate:"omitempty,oneof=json text pdf excel"`
	DbSchema     string `json:"db_schema"`
}
