package model

import (
	"stays/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldRoomType    = "room_type"
	FieldPricePerDay = "price_per_day"
	FieldCapacity    = "capacity"
	FieldImages      = "images"
	FieldAmenities   = "amenities"
	FieldIsAvailable = "is_available"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "standard"
	RoomTypeDeluxe   RoomType = "deluxe"
	RoomTypeSuite    RoomType = "suite"
	RoomTypeFamily   RoomType = "family"
)

// Room prices are minor currency units.
type Room struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Description   string         `db:"description"`
	RoomType      RoomType       `db:"room_type"`
	PricePerDay   int64          `db:"price_per_day"`
	PricePerWeek  int64          `db:"price_per_week"`
	PricePerMonth int64          `db:"price_per_month"`
	Capacity      int            `db:"capacity"`
	Images        pq.StringArray `db:"images"`
	Amenities     pq.StringArray `db:"amenities"`
	IsAvailable   bool           `db:"is_available"`
	model.Metadata
}
