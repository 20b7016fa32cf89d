package models

// CategoryOther is assigned when no keyword matches a description.
const CategoryOther = "Other"

// Required CSV header names. Matching is case-sensitive.
const (
	ColumnDate        = "Date"
	ColumnDescription = "Description"
	ColumnAmount      = "Amount"
	ColumnCategory    = "Category"
)

// RequiredColumns lists the headers every upload must carry.
var RequiredColumns = []string{ColumnDate, ColumnDescription, ColumnAmount}

// File permissions
const (
	PermissionDataFile  = 0600
	PermissionDirectory = 0750
	PermissionExport    = 0644
)
