// server/internal/database/seeder.go
package database

import (
	"context"
	"log"

	"fieldops-inventory-api-server/internal/auth"
	"fieldops-inventory-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedSuperAdmin makes sure the bootstrap account exists.
func SeedSuperAdmin(db *mongo.Database) error {
	userCollection := db.Collection("users")
	superAdminUsername := "superadmin"

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"username": superAdminUsername})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Super admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Super admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword("superadminpassword")
	if err != nil {
		return err
	}

	superAdmin := models.User{
		Username:   superAdminUsername,
		Name:       "Super Admin",
		Password:   hashedPassword,
		Role:       models.RoleSuperadmin,
		DivisionID: "system",
		Status:     "active",
	}

	_, err = userCollection.InsertOne(context.Background(), superAdmin)
	if err != nil {
		return err
	}

	log.Println("Super admin seeded successfully.")
	return nil
}

// SeedStandardItems loads a starter catalog so fresh installs can register
// measurement stock without typing capacities by hand.
func SeedStandardItems(db *mongo.Database) error {
	collection := db.Collection("standard_items")

	count, err := collection.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Standard item catalog empty. Seeding defaults...")
	items := []interface{}{
		models.StandardItem{
			Name:              "ADSS 24 Core",
			Brand:             "Voksel",
			TrackingMethod:    models.TrackingBulk,
			BulkType:          models.BulkTypeMeasurement,
			UnitOfMeasure:     "Drum",
			BaseUnitOfMeasure: "Meter",
			QuantityPerUnit:   2000,
		},
		models.StandardItem{
			Name:              "Dropcore 1 Core",
			Brand:             "Fiberhome",
			TrackingMethod:    models.TrackingBulk,
			BulkType:          models.BulkTypeMeasurement,
			UnitOfMeasure:     "Hasbal",
			BaseUnitOfMeasure: "Meter",
			QuantityPerUnit:   1000,
		},
		models.StandardItem{
			Name:           "Fast Connector SC/UPC",
			Brand:          "Generic",
			TrackingMethod: models.TrackingBulk,
			BulkType:       models.BulkTypeCount,
			UnitOfMeasure:  "Pcs",
		},
	}

	_, err = collection.InsertMany(context.Background(), items)
	return err
}
