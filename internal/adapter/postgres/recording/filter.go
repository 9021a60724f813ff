package recording

import (
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

// sort columns exposed to the API; anything else falls back to recorded_at.
var sortColumns = map[string]string{
	"recordedAt":   "recorded_at",
	"staffName":    "staff_name",
	"customerName": "customer_name",
	"status":       "status",
}

// buildWhere combines the mandatory ownership predicate with the optional
// listing filters.
func buildWhere(userID uuid.UUID, f domain.RecordingFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"user_id": userID}}

	if f.StaffName != nil && *f.StaffName != "" {
		where = append(where, squirrel.ILike{"staff_name": "%" + *f.StaffName + "%"})
	}
	if f.CustomerName != nil && *f.CustomerName != "" {
		where = append(where, squirrel.ILike{"customer_name": "%" + *f.CustomerName + "%"})
	}
	if f.MeetingType != nil {
		where = append(where, squirrel.Eq{"meeting_type": string(*f.MeetingType)})
	}
	if f.Status != nil {
		where = append(where, squirrel.Eq{"status": string(*f.Status)})
	}
	if f.ProductCategory != nil {
		where = append(where, squirrel.Eq{"product_category": string(*f.ProductCategory)})
	}
	if f.DateFrom != nil {
		where = append(where, squirrel.GtOrEq{"recorded_at": *f.DateFrom})
	}
	if f.DateTo != nil {
		where = append(where, squirrel.LtOrEq{"recorded_at": *f.DateTo})
	}

	return where
}

// orderClause maps an API sort key and order to a SQL ORDER BY expression.
// Unknown keys sort by recorded_at; anything but "asc" sorts descending.
func orderClause(sortBy, sortOrder string) string {
	col, ok := sortColumns[sortBy]
	if !ok {
		col = "recorded_at"
	}
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}
