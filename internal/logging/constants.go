package logging

// Field names shared by every component so log output can be filtered
// consistently.
const (
	FieldFile        = "file_path"
	FieldInstitution = "institution"
	FieldAccount     = "account"
	FieldCategory    = "category"
	FieldParty       = "party"
	FieldRule        = "rule"
	FieldRunID       = "run_id"
	FieldOutcome     = "outcome"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldCount       = "count"
	FieldDuration    = "duration_ms"
	FieldLine        = "line"
	FieldQuery       = "query"
)
