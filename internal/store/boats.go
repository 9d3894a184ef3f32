package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/errors"
)

const boatColumns = `b.id, b.name, COALESCE(b.type_id, ''), COALESCE(t.name, ''), b.owner_name,
	b.price, b.length, b.year, b.description, b.picture, b.latitude, b.longitude, b.updated_at`

const boatFrom = ` FROM boats b LEFT JOIN boat_types t ON t.id = b.type_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoat(row rowScanner) (boat.Boat, error) {
	var b boat.Boat
	err := row.Scan(&b.ID, &b.Name, &b.TypeID, &b.TypeName, &b.OwnerName,
		&b.Price, &b.Length, &b.Year, &b.Description, &b.Picture,
		&b.Location.Latitude, &b.Location.Longitude, &b.UpdatedAt)
	return b, err
}

// Boat returns the boat with the given id.
func (s *Store) Boat(ctx context.Context, id string) (boat.Boat, error) {
	if err := s.checkOpen(); err != nil {
		return boat.Boat{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+boatColumns+boatFrom+` WHERE b.id = ?`, id)
	b, err := scanBoat(row)
	if err == sql.ErrNoRows {
		return boat.Boat{}, errors.NewNotFoundError("boat", id)
	}
	if err != nil {
		return boat.Boat{}, s.storeErr("get boat", "boats", err)
	}
	return b, nil
}

// Boats returns the boats matching f, ordered by name.
func (s *Store) Boats(ctx context.Context, f boat.Filter) ([]boat.Boat, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	match, err := f.Matcher()
	if err != nil {
		return nil, err
	}

	boats, err := s.queryBoats(ctx, "list boats", f.TypeID, "b.name COLLATE NOCASE, b.id")
	if err != nil {
		return nil, err
	}
	out := boats[:0]
	for _, b := range boats {
		if match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) queryBoats(ctx context.Context, op, typeID, orderBy string) ([]boat.Boat, error) {
	query := `SELECT ` + boatColumns + boatFrom
	var args []any
	if typeID != "" {
		query += ` WHERE b.type_id = ?`
		args = append(args, typeID)
	}
	query += ` ORDER BY ` + orderBy

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.storeErr(op, "boats", err)
	}
	defer rows.Close()

	var boats []boat.Boat
	for rows.Next() {
		b, err := scanBoat(rows)
		if err != nil {
			return nil, s.storeErr(op, "boats", err)
		}
		boats = append(boats, b)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storeErr(op, "boats", err)
	}
	return boats, nil
}

// UpdateBoats applies every patch or none of them. Rejections are returned
// together as errors.ValidationErrors, one entry per offending field.
func (s *Store) UpdateBoats(ctx context.Context, patches []boat.Patch) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(patches) == 0 {
		return nil
	}

	var invalid errors.ValidationErrors
	for _, p := range patches {
		if err := p.Validate(); err != nil {
			var ves errors.ValidationErrors
			if errors.As(err, &ves) {
				invalid = append(invalid, ves...)
			}
		}
	}
	if len(invalid) > 0 {
		return invalid
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var missing errors.ValidationErrors
		for _, p := range patches {
			row := tx.QueryRowContext(ctx, `SELECT `+boatColumns+boatFrom+` WHERE b.id = ?`, p.ID)
			current, err := scanBoat(row)
			if err == sql.ErrNoRows {
				missing = append(missing, errors.NewValidationError("boat does not exist").
					WithField("id").WithRecord(p.ID).WithCause(errors.ErrBoatNotFound))
				continue
			}
			if err != nil {
				return s.storeErr("load boat for update", "boats", err)
			}

			next := p.Apply(current)
			_, err = tx.ExecContext(ctx,
				`UPDATE boats SET name = ?, price = ?, length = ?, description = ?, updated_at = ? WHERE id = ?`,
				next.Name, next.Price, next.Length, next.Description, s.now(), p.ID)
			if err != nil {
				return s.storeErr("update boat", "boats", err)
			}
		}
		if len(missing) > 0 {
			return missing
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("boats updated", "count", len(patches))
	return nil
}

// CreateBoat stores a new boat and returns it with its id set. A boat
// without an id gets a fresh one.
func (s *Store) CreateBoat(ctx context.Context, b boat.Boat) (boat.Boat, error) {
	if err := s.checkOpen(); err != nil {
		return boat.Boat{}, err
	}
	if strings.TrimSpace(b.Name) == "" {
		return boat.Boat{}, errors.NewValidationError("Name cannot be blank").WithField("name")
	}
	if err := b.Location.Validate(); err != nil {
		return boat.Boat{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.UpdatedAt = s.now()

	var typeID any
	if b.TypeID != "" {
		typeID = b.TypeID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO boats (id, name, type_id, owner_name, price, length, year, description, picture, latitude, longitude, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, typeID, b.OwnerName, b.Price, b.Length, b.Year, b.Description, b.Picture,
		b.Location.Latitude, b.Location.Longitude, b.UpdatedAt)
	if err != nil {
		return boat.Boat{}, s.storeErr("create boat", "boats", err)
	}
	return b, nil
}

// BoatTypes returns every boat type ordered by name.
func (s *Store) BoatTypes(ctx context.Context) ([]boat.BoatType, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM boat_types ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, s.storeErr("list boat types", "boat_types", err)
	}
	defer rows.Close()

	var types []boat.BoatType
	for rows.Next() {
		var t boat.BoatType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, s.storeErr("list boat types", "boat_types", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storeErr("list boat types", "boat_types", err)
	}
	return types, nil
}

// EnsureBoatType returns the type with the given name, creating it if
// needed.
func (s *Store) EnsureBoatType(ctx context.Context, name string) (boat.BoatType, error) {
	if err := s.checkOpen(); err != nil {
		return boat.BoatType{}, err
	}
	name = boat.TypeName(name)
	if name == "" {
		return boat.BoatType{}, errors.NewValidationError("boat type name is required").WithField("type")
	}

	t := boat.BoatType{Name: name}
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM boat_types WHERE name = ?`, name).Scan(&t.ID, &t.Name)
	if err == nil {
		return t, nil
	}
	if err != sql.ErrNoRows {
		return boat.BoatType{}, s.storeErr("find boat type", "boat_types", err)
	}

	t.ID = uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO boat_types (id, name) VALUES (?, ?)`, t.ID, t.Name); err != nil {
		return boat.BoatType{}, s.storeErr("create boat type", "boat_types", err)
	}
	return t, nil
}

// SimilarBoats returns boats similar to boatID, excluding the boat itself.
// Type and length matches are ordered by length, price and year; price
// matches by price, length and year.
func (s *Store) SimilarBoats(ctx context.Context, boatID string, by boat.SimilarBy) ([]boat.Boat, error) {
	current, err := s.Boat(ctx, boatID)
	if err != nil {
		return nil, err
	}

	typeID := ""
	if by == boat.SimilarByType {
		if current.TypeID == "" {
			return nil, nil
		}
		typeID = current.TypeID
	}
	order := "b.length, b.price, b.year, b.id"
	if by == boat.SimilarByPrice {
		order = "b.price, b.length, b.year, b.id"
	}

	candidates, err := s.queryBoats(ctx, "similar boats", typeID, order)
	if err != nil {
		return nil, err
	}
	var out []boat.Boat
	for _, b := range candidates {
		if boat.Similar(current, b, by) {
			out = append(out, b)
		}
	}
	return out, nil
}

// BoatsNear returns up to limit boats ordered by distance from from,
// optionally restricted to one type.
func (s *Store) BoatsNear(ctx context.Context, from boat.Location, typeID string, limit int) ([]boat.Boat, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := from.Validate(); err != nil {
		return nil, err
	}
	boats, err := s.queryBoats(ctx, "boats near", typeID, "b.id")
	if err != nil {
		return nil, err
	}
	return boat.Nearest(boats, from, limit), nil
}

// Stats summarizes the store contents.
type Stats struct {
	Boats   int
	Types   int
	Reviews int
}

// Stats counts the rows in each table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if err := s.checkOpen(); err != nil {
		return Stats{}, err
	}
	var st Stats
	err := s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM boats),
		(SELECT COUNT(*) FROM boat_types),
		(SELECT COUNT(*) FROM reviews)`).Scan(&st.Boats, &st.Types, &st.Reviews)
	if err != nil {
		return Stats{}, s.storeErr("stats", "", err)
	}
	return st, nil
}
