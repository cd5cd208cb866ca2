package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-service/internal/apperr"
)

type EquipmentItemType string

const (
	ItemTypeHelmet EquipmentItemType = "helmet"
	ItemTypeJersey EquipmentItemType = "jersey"
	ItemTypeBike   EquipmentItemType = "bike"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// EquipmentColor is a dominant-color observation for one equipment item
// of a detected cyclist.
type EquipmentColor struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DetectedCyclistID uuid.UUID         `gorm:"type:uuid;not null;index" json:"detected_cyclist_id"`
	ItemType          EquipmentItemType `gorm:"type:varchar(16);not null" json:"item_type"`
	ColorName         string            `gorm:"type:text;not null" json:"color_name"`
	ColorHex          string            `gorm:"type:varchar(7);not null" json:"color_hex"`
	DensityPercentage float64           `gorm:"type:decimal(5,2);not null" json:"density_percentage"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (EquipmentColor) TableName() string {
	return "equipment_colors"
}

func (e *EquipmentColor) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func NewEquipmentColor(detectedCyclistID uuid.UUID, itemType EquipmentItemType, colorName, colorHex string, densityPercentage float64, now time.Time) (*EquipmentColor, error) {
	switch itemType {
	case ItemTypeHelmet, ItemTypeJersey, ItemTypeBike:
	default:
		return nil, apperr.BusinessRule("equipment_color.item_type_invalid", "item type must be helmet, jersey or bike")
	}
	if !hexColorPattern.MatchString(colorHex) {
		return nil, apperr.BusinessRule("equipment_color.hex_invalid", "color hex must be a valid hex color")
	}
	if densityPercentage < 0 || densityPercentage > 100 {
		return nil, apperr.BusinessRule("equipment_color.density_out_of_range", "density percentage must be between 0 and 100")
	}
	return &EquipmentColor{
		ID:                uuid.New(),
		DetectedCyclistID: detectedCyclistID,
		ItemType:          itemType,
		ColorName:         colorName,
		ColorHex:          colorHex,
		DensityPercentage: densityPercentage,
		CreatedAt:         now,
	}, nil
}
