package dto

import (
	"mime/multipart"

	"stays/internal/domains/room/model"
	"stays/shared"
	gDto "stays/shared/dto"
	gModel "stays/shared/model"
	"stays/shared/timezone"

	"github.com/google/uuid"
)

// Upload is an image file received as multipart form data.
type Upload struct {
	Header *multipart.FileHeader
	File   multipart.File
}

// CreateRoomRequest accepts image references as URLs or data URLs; multipart requests add Uploads.
type CreateRoomRequest struct {
	Name          string   `json:"name"            validate:"required,max=100"`
	Description   string   `json:"description"     validate:"omitempty,max=1000"`
	RoomType      string   `json:"room_type"       validate:"required,oneof=standard deluxe suite family"`
	PricePerDay   int64    `json:"price_per_day"   validate:"gte=0"`
	PricePerWeek  int64    `json:"price_per_week"  validate:"gte=0"`
	PricePerMonth int64    `json:"price_per_month" validate:"gte=0"`
	Capacity      int      `json:"capacity"        validate:"required,min=1"`
	Images        []string `json:"images"          validate:"omitempty,dive,required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	Amenities     []string `json:"amenities"       validate:"required,min=1,dive,required,max=100"`
	IsAvailable   *bool    `json:"is_available"    validate:"omitempty"`
	Uploads       []Upload `json:"-"               validate:"-"`
}

// HasImages reports whether at least one image reference or upload was supplied.
func (c *CreateRoomRequest) HasImages() bool {
	return len(c.Images)+len(c.Uploads) > 0
}

func (c *CreateRoomRequest) ToModel(user string, images []string) model.Room {
	available := true
	if c.IsAvailable != nil {
		available = *c.IsAvailable
	}

	return model.Room{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Description:   c.Description,
		RoomType:      model.RoomType(c.RoomType),
		PricePerDay:   c.PricePerDay,
		PricePerWeek:  c.PricePerWeek,
		PricePerMonth: c.PricePerMonth,
		Capacity:      c.Capacity,
		Images:        images,
		Amenities:     c.Amenities,
		IsAvailable:   available,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

// UpdateRoomRequest is a partial patch; nil and empty fields are left unchanged.
type UpdateRoomRequest struct {
	Name          string   `db:"name"            json:"name"            validate:"omitempty,max=100"`
	Description   string   `db:"description"     json:"description"     validate:"omitempty,max=1000"`
	RoomType      string   `db:"room_type"       json:"room_type"       validate:"omitempty,oneof=standard deluxe suite family"`
	PricePerDay   *int64   `db:"price_per_day"   json:"price_per_day"   validate:"omitempty,gte=0"`
	PricePerWeek  *int64   `db:"price_per_week"  json:"price_per_week"  validate:"omitempty,gte=0"`
	PricePerMonth *int64   `db:"price_per_month" json:"price_per_month" validate:"omitempty,gte=0"`
	Capacity      *int     `db:"capacity"        json:"capacity"        validate:"omitempty,min=1"`
	Images        []string `db:"-"               json:"images"          validate:"omitempty,min=1,dive,required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	Amenities     []string `db:"-"               json:"amenities"       validate:"omitempty,min=1,dive,required,max=100"`
	IsAvailable   *bool    `db:"is_available"    json:"is_available"    validate:"omitempty"`
	Uploads       []Upload `db:"-"               json:"-"               validate:"-"`
}

func (u *UpdateRoomRequest) IsEmpty() bool {
	return u.Name == "" && u.Description == "" && u.RoomType == "" &&
		u.PricePerDay == nil && u.PricePerWeek == nil && u.PricePerMonth == nil &&
		u.Capacity == nil && u.IsAvailable == nil &&
		len(u.Images) == 0 && len(u.Amenities) == 0 && len(u.Uploads) == 0
}

// ReplacesImages reports whether the patch carries a new image set.
func (u *UpdateRoomRequest) ReplacesImages() bool {
	return len(u.Images)+len(u.Uploads) > 0
}

type RoomResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	RoomType      string   `json:"room_type"`
	PricePerDay   int64    `json:"price_per_day"`
	PricePerWeek  int64    `json:"price_per_week"`
	PricePerMonth int64    `json:"price_per_month"`
	Capacity      int      `json:"capacity"`
	Images        []string `json:"images"`
	Amenities     []string `json:"amenities"`
	IsAvailable   bool     `json:"is_available"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.RoomType = string(model.RoomType)
	r.PricePerDay = model.PricePerDay
	r.PricePerWeek = model.PricePerWeek
	r.PricePerMonth = model.PricePerMonth
	r.Capacity = model.Capacity
	r.Images = []string(model.Images)
	r.Amenities = []string(model.Amenities)
	r.IsAvailable = model.IsAvailable
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
