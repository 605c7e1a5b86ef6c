package validators

import "go.mongodb.org/mongo-driver/bson"

var GuestDateViewValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"guest_id",
			"date",
			"hotel_id",
			"room_number",
			"confirmation_number",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"guest_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"hotel_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"room_number": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"confirmation_number": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
