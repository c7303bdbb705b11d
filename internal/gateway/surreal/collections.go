package surreal

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nfrund/flavorfusion/internal/database"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

type restaurantRow struct {
	ID          *models.RecordID `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Owner       *models.RecordID `json:"owner"`
	OwnerName   *string          `json:"owner_name,omitempty"`
	CoverImage  domain.ImageRef  `json:"cover_image,omitempty"`
}

func (r restaurantRow) toDomain(withOwner bool) domain.Restaurant {
	out := domain.Restaurant{
		ID:          recordString(r.ID),
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     recordString(r.Owner),
		CoverImage:  r.CoverImage,
	}
	if withOwner && r.OwnerName != nil {
		out.Owner = &domain.OwnerRef{ID: out.OwnerID, Name: *r.OwnerName}
	}
	return out
}

type menuItemRow struct {
	ID             *models.RecordID `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          float64          `json:"price"`
	Category       string           `json:"category"`
	Photo          domain.ImageRef  `json:"photo,omitempty"`
	Restaurant     *models.RecordID `json:"restaurant"`
	RestaurantName *string          `json:"restaurant_name,omitempty"`
}

func (r menuItemRow) toDomain(withRestaurant bool) domain.MenuItem {
	out := domain.MenuItem{
		ID:           recordString(r.ID),
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Category:     domain.Category(r.Category),
		Photo:        r.Photo,
		RestaurantID: recordString(r.Restaurant),
	}
	if withRestaurant && r.RestaurantName != nil {
		out.Restaurant = &domain.RestaurantRef{ID: out.RestaurantID, Name: *r.RestaurantName}
	}
	return out
}

func recordString(id *models.RecordID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// parseRecord parses a "table:id" string and checks the table.
func parseRecord(table, raw string) (*models.RecordID, error) {
	rid, err := models.ParseRecordID(raw)
	if err != nil || rid.Table != table {
		return nil, domain.NewValidationError(table, fmt.Sprintf("%q is not a %s id.", raw, table))
	}
	return rid, nil
}

// filterField maps a ListOptions filter key onto a column for each table.
var filterField = map[string]map[string]string{
	tableRestaurant: {domain.FieldOwnerID: "owner"},
	tableMenuItem:   {domain.FieldRestaurantID: "restaurant"},
}

// refTable is the table a filtered column points at.
var refTable = map[string]string{
	"owner":      tableUser,
	"restaurant": tableRestaurant,
}

// buildSelect renders a SELECT with equality filters bound as parameters.
func buildSelect(table string, projection []string, filter map[string]string) (string, map[string]any, error) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var where []string
	params := map[string]any{}
	for _, k := range keys {
		col, ok := filterField[table][k]
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter %q on %s", k, table)
		}
		rid, err := parseRecord(refTable[col], filter[k])
		if err != nil {
			return "", nil, err
		}
		where = append(where, fmt.Sprintf("%s = $%s", col, col))
		params[col] = *rid
	}

	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(projection, ", "), table)
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at ASC"
	return q, params, nil
}

// ListRestaurants implements domain.Gateway.
func (g *Gateway) ListRestaurants(ctx context.Context, opts domain.ListOptions) ([]domain.Restaurant, error) {
	projection := []string{"id", "name", "description", "owner", "cover_image", "created_at"}
	withOwner := opts.Includes(domain.IncludeOwner)
	if withOwner {
		projection = append(projection, "owner.name AS owner_name")
	}
	q, params, err := buildSelect(tableRestaurant, projection, opts.Filter)
	if err != nil {
		return nil, err
	}

	var rows []restaurantRow
	err = g.withConn(ctx, func(db *surrealdb.DB) error {
		rows, err = database.Query[restaurantRow](ctx, db, q, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Restaurant, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain(withOwner))
	}
	return out, nil
}

// ListMenuItems implements domain.Gateway.
func (g *Gateway) ListMenuItems(ctx context.Context, opts domain.ListOptions) ([]domain.MenuItem, error) {
	projection := []string{"id", "name", "description", "price", "category", "photo", "restaurant", "created_at"}
	withRestaurant := opts.Includes(domain.IncludeRestaurant)
	if withRestaurant {
		projection = append(projection, "restaurant.name AS restaurant_name")
	}
	q, params, err := buildSelect(tableMenuItem, projection, opts.Filter)
	if err != nil {
		return nil, err
	}

	var rows []menuItemRow
	err = g.withConn(ctx, func(db *surrealdb.DB) error {
		rows, err = database.Query[menuItemRow](ctx, db, q, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.MenuItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain(withRestaurant))
	}
	return out, nil
}

// CreateRestaurant implements domain.Gateway.
func (g *Gateway) CreateRestaurant(ctx context.Context, draft domain.RestaurantDraft) (*domain.Restaurant, error) {
	params := map[string]any{
		"name":        draft.Name,
		"description": draft.Description,
	}
	set := []string{"name = $name", "description = $description", "owner = $auth.id"}
	if draft.CoverImage != nil {
		img, err := g.saveImage(ctx, domain.CollectionRestaurants, "coverImage", *draft.CoverImage)
		if err != nil {
			return nil, err
		}
		params["cover_image"] = img
		set = append(set, "cover_image = $cover_image")
	}

	q := "CREATE restaurant SET " + strings.Join(set, ", ") + " RETURN *, owner.name AS owner_name"
	row, err := createOne[restaurantRow](ctx, g, q, params)
	if err != nil {
		return nil, err
	}
	r := row.toDomain(true)
	return &r, nil
}

// CreateMenuItem implements domain.Gateway.
func (g *Gateway) CreateMenuItem(ctx context.Context, draft domain.MenuItemDraft) (*domain.MenuItem, error) {
	rid, err := parseRecord(tableRestaurant, draft.RestaurantID)
	if err != nil {
		return nil, err
	}
	params := map[string]any{
		"name":        draft.Name,
		"description": draft.Description,
		"price":       draft.Price,
		"category":    string(draft.Category),
		"restaurant":  *rid,
	}
	set := []string{"name = $name", "description = $description", "price = $price", "category = $category", "restaurant = $restaurant"}
	if draft.Photo != nil {
		img, err := g.saveImage(ctx, domain.CollectionMenuItems, "photo", *draft.Photo)
		if err != nil {
			return nil, err
		}
		params["photo"] = img
		set = append(set, "photo = $photo")
	}

	q := "CREATE menu_item SET " + strings.Join(set, ", ") + " RETURN *, restaurant.name AS restaurant_name"
	row, err := createOne[menuItemRow](ctx, g, q, params)
	if err != nil {
		return nil, err
	}
	m := row.toDomain(true)
	return &m, nil
}

func (g *Gateway) saveImage(ctx context.Context, entity, property string, att domain.Attachment) (domain.ImageRef, error) {
	if g.images == nil {
		return nil, domain.NewValidationError(property, "Image uploads are not configured.")
	}
	return g.images.SaveImage(ctx, entity, property, att)
}

// createOne runs a CREATE and maps an empty result to ErrNotPermitted, which
// is how table permissions reject a write.
func createOne[T any](ctx context.Context, g *Gateway, q string, params map[string]any) (*T, error) {
	var row *T
	err := g.withConn(ctx, func(db *surrealdb.DB) error {
		if g.token == "" {
			return domain.ErrUnauthenticated
		}
		var err error
		row, err = database.QueryOne[T](ctx, db, q, params)
		return err
	})
	if err != nil {
		return nil, createError(err)
	}
	if row == nil {
		return nil, fmt.Errorf("create: %w", domain.ErrNotPermitted)
	}
	return row, nil
}

var fieldPattern = regexp.MustCompile("field `([a-z_]+)`")

// formField maps column names onto the form field names they came from.
var formField = map[string]string{
	"cover_image": "coverImage",
}

// createError turns schema assertion failures into validation errors.
func createError(err error) error {
	var dbErr *database.DBError
	if database.IsConnectionError(err) || !errors.As(err, &dbErr) {
		return err
	}
	if m := fieldPattern.FindStringSubmatch(err.Error()); m != nil {
		field := m[1]
		if f, ok := formField[field]; ok {
			field = f
		}
		return domain.NewValidationError(field, "Invalid value.")
	}
	return &domain.ValidationError{Message: "The submitted data was rejected."}
}
