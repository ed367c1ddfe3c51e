package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StandardItem is a catalog entry describing how a (name, brand) model is
// expected to behave as stock. QuantityPerUnit is the capacity of one
// container for measurement stock (e.g. 2000 meters per drum).
type StandardItem struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Brand             string             `bson:"brand" json:"brand"`
	TrackingMethod    string             `bson:"trackingMethod" json:"trackingMethod"`
	BulkType          string             `bson:"bulkType,omitempty" json:"bulkType,omitempty"`
	UnitOfMeasure     string             `bson:"unitOfMeasure,omitempty" json:"unitOfMeasure,omitempty"`
	BaseUnitOfMeasure string             `bson:"baseUnitOfMeasure,omitempty" json:"baseUnitOfMeasure,omitempty"`
	QuantityPerUnit   float64            `bson:"quantityPerUnit,omitempty" json:"quantityPerUnit,omitempty"`
}
