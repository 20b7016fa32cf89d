package logging

// Standardized field names for structured logging.
const (
	FieldComponent  = "component"
	FieldFile       = "file_path"
	FieldSource     = "source"
	FieldCategory   = "category"
	FieldKeyword    = "keyword"
	FieldCurrency   = "currency"
	FieldGoalID     = "goal_id"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldRow        = "row"
	FieldMonth      = "month"
	FieldOutputFile = "output_file"
	FieldUploadSeq  = "upload_seq"
	FieldStoreKey   = "store_key"
	FieldHTTPStatus = "http_status"
	FieldURL        = "url"
	FieldSortColumn = "sort_column"
	FieldDateStart  = "date_start"
	FieldDateEnd    = "date_end"
)
