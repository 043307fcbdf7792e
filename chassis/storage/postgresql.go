package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrUnknownRestaurant is returned when a menu item references a
// restaurant that is not in the catalog.
var ErrUnknownRestaurant = errors.New("unknown restaurant")

// PGRepository - ...
type PGRepository struct {
	pool *pgxpool.Pool
}

// InitPGRepository - ...
func InitPGRepository(cfg Config) (MenuRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.ConnectConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	return &PGRepository{
		pool: pool,
	}, nil
}

// ListRestaurants - ...
func (repo *PGRepository) ListRestaurants() ([]*Restaurant, error) {
	query := `select id, name, coalesce(address, ''), coalesce(phone, '') from t_restaurant order by name`
	rows, err := repo.pool.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	restaurants := []*Restaurant{}
	for rows.Next() {
		var restaurant Restaurant
		err = rows.Scan(
			&restaurant.ID,
			&restaurant.Name,
			&restaurant.Address,
			&restaurant.Phone,
		)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, &restaurant)
	}
	return restaurants, rows.Err()
}

func scanItems(rows pgx.Rows) ([]*MenuItem, error) {
	defer rows.Close()
	items := []*MenuItem{}
	for rows.Next() {
		var item MenuItem
		err := rows.Scan(
			&item.ID,
			&item.RestaurantID,
			&item.Name,
			&item.Calories,
			&item.ProteinG,
			&item.CarbsG,
			&item.FatsG,
			&item.Price,
			&item.RestaurantName,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// SelectItems - items within budget and the calorie bracket
func (repo *PGRepository) SelectItems(filter ItemFilter) ([]*MenuItem, error) {
	var rows pgx.Rows
	var err error
	if filter.RestaurantID != 0 {
		query := `
		select m.id, m.restaurant_id, m.name, m.calories, m.protein_g, m.carbs_g, m.fats_g, m.price, r.name
		from t_menu_item m
		join t_restaurant r on r.id = m.restaurant_id
		where
			m.restaurant_id = $1
			and m.price <= $2
			and m.calories between $3 and $4
		limit $5;
		`
		rows, err = repo.pool.Query(
			context.Background(), query,
			filter.RestaurantID, filter.Budget, filter.MinCalories, filter.MaxCalories, filter.Limit,
		)
	} else {
		query := `
		select m.id, m.restaurant_id, m.name, m.calories, m.protein_g, m.carbs_g, m.fats_g, m.price, r.name
		from t_menu_item m
		join t_restaurant r on r.id = m.restaurant_id
		where
			m.price <= $1
			and m.calories between $2 and $3
		limit $4;
		`
		rows, err = repo.pool.Query(
			context.Background(), query,
			filter.Budget, filter.MinCalories, filter.MaxCalories, filter.Limit,
		)
	}
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// SampleAffordableItems - a random slice of the catalog under budget,
// used to seed the meal-plan prompt
func (repo *PGRepository) SampleAffordableItems(budget float64, limit int) ([]*MenuItem, error) {
	query := `
	select m.id, m.restaurant_id, m.name, m.calories, m.protein_g, m.carbs_g, m.fats_g, m.price, r.name
	from t_menu_item m
	join t_restaurant r on r.id = m.restaurant_id
	where m.price <= $1
	order by random()
	limit $2;
	`
	rows, err := repo.pool.Query(context.Background(), query, budget, limit)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// UpsertRestaurant - insert or refresh by unique name, returns the id
func (repo *PGRepository) UpsertRestaurant(restaurant *Restaurant) (int, error) {
	query := `
	insert into t_restaurant(name, address, phone) values ($1, $2, $3)
	on conflict (name) do update set
		address = excluded.address,
		phone = excluded.phone
	returning id;
	`
	var id int
	err := repo.pool.QueryRow(
		context.Background(), query,
		restaurant.Name, restaurant.Address, restaurant.Phone,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertMenuItem - insert or refresh by (restaurant_id, name)
func (repo *PGRepository) UpsertMenuItem(item *MenuItem) error {
	query := `
	insert into t_menu_item(restaurant_id, name, calories, protein_g, carbs_g, fats_g, price)
	values ($1, $2, $3, $4, $5, $6, $7)
	on conflict (restaurant_id, name) do update set
		calories = excluded.calories,
		protein_g = excluded.protein_g,
		carbs_g = excluded.carbs_g,
		fats_g = excluded.fats_g,
		price = excluded.price;
	`
	_, err := repo.pool.Exec(
		context.Background(), query,
		item.RestaurantID, item.Name, item.Calories, item.ProteinG, item.CarbsG, item.FatsG, item.Price,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrUnknownRestaurant
		}
		return err
	}
	return nil
}

// SavePlan - ...
func (repo *PGRepository) SavePlan(plan *Plan) error {
	query := `
	insert into t_plan(id, height_cm, weight_kg, budget, goal, body, created_dt, expires_dt)
	values ($1, $2, $3, $4, $5, $6, localtimestamp, $7);
	`
	_, err := repo.pool.Exec(
		context.Background(), query,
		plan.ID, plan.HeightCm, plan.WeightKg, plan.Budget, plan.Goal, plan.Body, plan.ExpiresDt,
	)
	return err
}

// CleanExpiredPlans ...
func (repo *PGRepository) CleanExpiredPlans() (int, error) {
	query := `
	delete from t_plan
	where expires_dt < localtimestamp;
	`
	cmdTag, err := repo.pool.Exec(context.Background(), query)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
