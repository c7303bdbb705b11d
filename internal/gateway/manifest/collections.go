package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/tidwall/gjson"
)

// listAll walks every page of a collection and returns the raw items.
func (c *Client) listAll(ctx context.Context, slug string, opts domain.ListOptions) ([]gjson.Result, error) {
	query := url.Values{}
	if len(opts.Include) > 0 {
		for _, rel := range opts.Include {
			query.Add("relations", rel)
		}
	}
	keys := make([]string, 0, len(opts.Filter))
	for k := range opts.Filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		query.Set(k+"_eq", opts.Filter[k])
	}
	query.Set("perPage", strconv.Itoa(c.perPage))

	var items []gjson.Result
	for page := 1; page <= maxPages; page++ {
		query.Set("page", strconv.Itoa(page))
		resp, err := c.do(ctx, http.MethodGet, "/api/collections/"+slug+"?"+query.Encode(), nil, "")
		if err != nil {
			return nil, err
		}
		if !resp.ok() {
			return nil, statusError("list "+slug, resp)
		}

		body := gjson.ParseBytes(resp.body)
		items = append(items, body.Get("data").Array()...)

		lastPage := body.Get("lastPage")
		if !lastPage.Exists() || page >= int(lastPage.Int()) {
			return items, nil
		}
	}
	return nil, fmt.Errorf("list %s: more than %d pages", slug, maxPages)
}

// ListRestaurants implements domain.Gateway.
func (c *Client) ListRestaurants(ctx context.Context, opts domain.ListOptions) ([]domain.Restaurant, error) {
	items, err := c.listAll(ctx, domain.CollectionRestaurants, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Restaurant, 0, len(items))
	for _, it := range items {
		out = append(out, parseRestaurant(it))
	}
	return out, nil
}

// ListMenuItems implements domain.Gateway.
func (c *Client) ListMenuItems(ctx context.Context, opts domain.ListOptions) ([]domain.MenuItem, error) {
	items, err := c.listAll(ctx, domain.CollectionMenuItems, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MenuItem, 0, len(items))
	for _, it := range items {
		out = append(out, parseMenuItem(it))
	}
	return out, nil
}

// CreateRestaurant implements domain.Gateway.
func (c *Client) CreateRestaurant(ctx context.Context, draft domain.RestaurantDraft) (*domain.Restaurant, error) {
	body := map[string]any{
		"name":        draft.Name,
		"description": draft.Description,
	}
	if draft.CoverImage != nil {
		img, err := c.uploadImage(ctx, domain.CollectionRestaurants, "coverImage", *draft.CoverImage)
		if err != nil {
			return nil, err
		}
		body["coverImage"] = img
	}

	created, err := c.create(ctx, domain.CollectionRestaurants, body)
	if err != nil {
		return nil, err
	}
	r := parseRestaurant(created)
	return &r, nil
}

// CreateMenuItem implements domain.Gateway.
func (c *Client) CreateMenuItem(ctx context.Context, draft domain.MenuItemDraft) (*domain.MenuItem, error) {
	body := map[string]any{
		"name":         draft.Name,
		"description":  draft.Description,
		"price":        draft.Price,
		"category":     string(draft.Category),
		"restaurantId": idValue(draft.RestaurantID),
	}
	if draft.Photo != nil {
		img, err := c.uploadImage(ctx, domain.CollectionMenuItems, "photo", *draft.Photo)
		if err != nil {
			return nil, err
		}
		body["photo"] = img
	}

	created, err := c.create(ctx, domain.CollectionMenuItems, body)
	if err != nil {
		return nil, err
	}
	m := parseMenuItem(created)
	return &m, nil
}

func (c *Client) create(ctx context.Context, slug string, body map[string]any) (gjson.Result, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/collections/"+slug, body)
	if err != nil {
		return gjson.Result{}, err
	}
	if !resp.ok() {
		return gjson.Result{}, statusError("create "+slug, resp)
	}
	return gjson.ParseBytes(resp.body), nil
}

// uploadImage posts the attachment to the image endpoint and returns the raw
// size map, which the create call passes through untouched.
func (c *Client) uploadImage(ctx context.Context, slug, property string, att domain.Attachment) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("entity", slug)
	_ = w.WriteField("property", property)

	header := make(textproto.MIMEHeader)
	filename := att.Filename
	if filename == "" {
		filename = property
	}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	if att.MIMEType != "" {
		header.Set("Content-Type", att.MIMEType)
	}
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(att.Data); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/upload/image", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError("upload "+property, resp)
	}
	if !gjson.ValidBytes(resp.body) {
		return nil, fmt.Errorf("upload %s: invalid response body", property)
	}
	return json.RawMessage(resp.body), nil
}

// idValue sends numeric ids as numbers, which is what the backend stores.
func idValue(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
