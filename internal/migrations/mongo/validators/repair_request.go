package validators

import "go.mongodb.org/mongo-driver/bson"

var RepairRequestValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer",
			"device",
			"service_type",
			"status",
			"submitted_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"customer": bson.M{
				"bsonType": "object",
				"required": []string{"first_name", "last_name", "email", "phone_number", "address"},
				"properties": bson.M{
					"first_name": bson.M{
						"bsonType":  "string",
						"minLength": 1,
						"maxLength": 50,
					},
					"last_name": bson.M{
						"bsonType":  "string",
						"minLength": 1,
						"maxLength": 50,
					},
					"email": bson.M{
						"bsonType": "string",
						"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
					},
					"phone_number": bson.M{
						"bsonType": "string",
						"pattern":  `^\+[1-9]\d{7,14}$`,
					},
					"address": bson.M{
						"bsonType": "object",
						"required": []string{"street_name", "house_number", "postal_code", "city"},
					},
				},
			},

			"device": bson.M{
				"bsonType": "object",
				"required": []string{"brand", "model"},
				"properties": bson.M{
					"brand": bson.M{
						"bsonType":  "string",
						"minLength": 1,
						"maxLength": 50,
					},
					"model": bson.M{
						"bsonType":  "string",
						"minLength": 1,
						"maxLength": 100,
					},
					"imei_number": bson.M{
						"bsonType": "string",
						"pattern":  `^\d{15}$`,
					},
				},
			},

			"repairs": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"service_name", "quoted_price"},
					"properties": bson.M{
						"service_name": bson.M{
							"bsonType":  "string",
							"minLength": 2,
							"maxLength": 100,
						},
						"quoted_price": bson.M{
							"bsonType": "decimal",
						},
						"actual_price": bson.M{
							"bsonType": "decimal",
						},
						"estimated_duration_min": bson.M{
							"bsonType": "int",
							"minimum":  5,
							"maximum":  480,
						},
					},
				},
			},

			"service_type": bson.M{
				"bsonType": "string",
				"enum":     []string{"walk-in", "send-in"},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending_quote",
					"quoted",
					"confirmed",
					"in_progress",
					"completed",
					"cancelled",
				},
			},

			"total_quoted_price": bson.M{
				"bsonType": "decimal",
			},

			"total_actual_price": bson.M{
				"bsonType": "decimal",
			},

			"appointment": bson.M{
				"bsonType": "object",
				"required": []string{"appointment_id", "date"},
				"properties": bson.M{
					"appointment_id": bson.M{
						"bsonType":  "string",
						"minLength": 24,
						"maxLength": 24,
					},
					"date": bson.M{
						"bsonType": "date",
					},
				},
			},

			"appointment_history": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"entry_id", "appointment_id", "date", "status", "action", "recorded_at"},
					"properties": bson.M{
						"action": bson.M{
							"bsonType": "string",
							"enum":     []string{"booked", "rescheduled", "cancelled"},
						},
					},
				},
			},

			"submitted_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
