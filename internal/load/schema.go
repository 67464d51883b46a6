package load

import (
	"context"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/db"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/pipeline"
)

// Schema finalization. Loaded tables are all-TEXT; these statements cast
// columns to their final types, derive columns, and declare keys. The
// statements for one table run in order; dimension primary keys must be
// in place before the fact table's foreign keys are declared.

type ddlStep struct {
	Table string
	SQL   string
}

// castSteps casts columns and applies the data fixups that belong in the
// target schema rather than the cleaners.
var castSteps = []ddlStep{
	{"dim_users", `
ALTER TABLE dim_users
    ALTER COLUMN first_name    TYPE VARCHAR(255),
    ALTER COLUMN last_name     TYPE VARCHAR(255),
    ALTER COLUMN date_of_birth TYPE DATE USING date_of_birth::date,
    ALTER COLUMN country_code  TYPE VARCHAR(2),
    ALTER COLUMN user_uuid     TYPE UUID USING user_uuid::uuid,
    ALTER COLUMN join_date     TYPE DATE USING join_date::date`},

	{"dim_store_details", `
ALTER TABLE dim_store_details
    ALTER COLUMN longitude     TYPE FLOAT USING longitude::double precision,
    ALTER COLUMN locality      TYPE VARCHAR(255),
    ALTER COLUMN store_code    TYPE VARCHAR(12),
    ALTER COLUMN staff_numbers TYPE SMALLINT USING staff_numbers::smallint,
    ALTER COLUMN opening_date  TYPE DATE USING opening_date::date,
    ALTER COLUMN store_type    TYPE VARCHAR(255),
    ALTER COLUMN latitude      TYPE FLOAT USING latitude::double precision,
    ALTER COLUMN country_code  TYPE VARCHAR(2),
    ALTER COLUMN continent     TYPE VARCHAR(255)`},

	// The web portal has no physical address; its locality reads N/A.
	{"dim_store_details", `
UPDATE dim_store_details
    SET locality = 'N/A'
    WHERE LOWER(store_type) LIKE 'web%' AND locality IS NULL`},

	{"dim_card_details", `
ALTER TABLE dim_card_details
    ALTER COLUMN card_number            TYPE VARCHAR(19),
    ALTER COLUMN expiry_date            TYPE VARCHAR(5),
    ALTER COLUMN date_payment_confirmed TYPE DATE USING date_payment_confirmed::date`},

	{"dim_products", `
ALTER TABLE dim_products
    ALTER COLUMN product_price TYPE FLOAT USING product_price::double precision,
    ALTER COLUMN weight        TYPE FLOAT USING weight::double precision,
    ALTER COLUMN "EAN"         TYPE VARCHAR(17),
    ALTER COLUMN product_code  TYPE VARCHAR(11),
    ALTER COLUMN date_added    TYPE DATE USING date_added::date,
    ALTER COLUMN uuid          TYPE UUID USING uuid::uuid`},

	{"dim_products", `
ALTER TABLE dim_products RENAME COLUMN removed TO still_available`},

	{"dim_products", `
ALTER TABLE dim_products
    ALTER COLUMN still_available TYPE BOOL
    USING (still_available = 'Still_available')`},

	// Weight class is derived from the weight in kilograms with fixed
	// breakpoints.
	{"dim_products", `
ALTER TABLE dim_products ADD COLUMN weight_class VARCHAR(14)`},

	{"dim_products", `
UPDATE dim_products
    SET weight_class = CASE
        WHEN weight < 2   THEN 'Light'
        WHEN weight < 40  THEN 'Mid_Sized'
        WHEN weight < 140 THEN 'Heavy'
        ELSE 'Truck_Required'
    END`},

	{"dim_date_times", `
ALTER TABLE dim_date_times
    ALTER COLUMN month       TYPE VARCHAR(2),
    ALTER COLUMN year        TYPE VARCHAR(4),
    ALTER COLUMN day         TYPE VARCHAR(2),
    ALTER COLUMN time_period TYPE VARCHAR(10),
    ALTER COLUMN date_uuid   TYPE UUID USING date_uuid::uuid`},

	{"orders_table", `
ALTER TABLE orders_table
    ALTER COLUMN date_uuid        TYPE UUID USING date_uuid::uuid,
    ALTER COLUMN user_uuid        TYPE UUID USING user_uuid::uuid,
    ALTER COLUMN card_number      TYPE VARCHAR(19),
    ALTER COLUMN store_code       TYPE VARCHAR(12),
    ALTER COLUMN product_code     TYPE VARCHAR(11),
    ALTER COLUMN product_quantity TYPE SMALLINT USING product_quantity::smallint`},
}

// primaryKeySteps declare the dimension primary keys. They must run
// before the foreign keys below.
var primaryKeySteps = []ddlStep{
	{"dim_users", `ALTER TABLE dim_users ADD PRIMARY KEY (user_uuid)`},
	{"dim_store_details", `ALTER TABLE dim_store_details ADD PRIMARY KEY (store_code)`},
	{"dim_card_details", `ALTER TABLE dim_card_details ADD PRIMARY KEY (card_number)`},
	{"dim_products", `ALTER TABLE dim_products ADD PRIMARY KEY (product_code)`},
	{"dim_date_times", `ALTER TABLE dim_date_times ADD PRIMARY KEY (date_uuid)`},
}

// foreignKeySteps tie the fact table to every dimension.
var foreignKeySteps = []ddlStep{
	{"orders_table", `
ALTER TABLE orders_table
    ADD CONSTRAINT fk_orders_user FOREIGN KEY (user_uuid)
    REFERENCES dim_users (user_uuid)`},
	{"orders_table", `
ALTER TABLE orders_table
    ADD CONSTRAINT fk_orders_store FOREIGN KEY (store_code)
    REFERENCES dim_store_details (store_code)`},
	{"orders_table", `
ALTER TABLE orders_table
    ADD CONSTRAINT fk_orders_card FOREIGN KEY (card_number)
    REFERENCES dim_card_details (card_number)`},
	{"orders_table", `
ALTER TABLE orders_table
    ADD CONSTRAINT fk_orders_product FOREIGN KEY (product_code)
    REFERENCES dim_products (product_code)`},
	{"orders_table", `
ALTER TABLE orders_table
    ADD CONSTRAINT fk_orders_date FOREIGN KEY (date_uuid)
    REFERENCES dim_date_times (date_uuid)`},
}

func runSteps(ctx context.Context, q db.Querier, steps []ddlStep) error {
	for _, step := range steps {
		if _, err := q.Exec(ctx, step.SQL); err != nil {
			return &pipeline.SchemaError{Table: step.Table, Err: err}
		}
	}
	return nil
}

// Finalize applies the type casts, derived columns and key constraints to
// the freshly loaded schema, dimensions before the fact table.
func Finalize(ctx context.Context, q db.Querier) error {
	logging.Info().Msg("Casting column types")
	if err := runSteps(ctx, q, castSteps); err != nil {
		return err
	}

	logging.Info().Msg("Declaring dimension primary keys")
	if err := runSteps(ctx, q, primaryKeySteps); err != nil {
		return err
	}

	logging.Info().Msg("Declaring fact table foreign keys")
	if err := runSteps(ctx, q, foreignKeySteps); err != nil {
		return err
	}

	logging.Info().Msg("Schema finalization complete")
	return nil
}
