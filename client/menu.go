package client

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sagebistro/reservation-app/models"
)

func (c *Client) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/api/menu", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now

	var created models.MenuItem
	if err := c.do(ctx, http.MethodPost, "/api/menu", item, &created); err != nil {
		return models.MenuItem{}, err
	}
	return created, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, id string, updates map[string]interface{}) (models.MenuItem, error) {
	body := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		body[k] = v
	}
	body["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	var updated models.MenuItem
	if err := c.do(ctx, http.MethodPut, "/api/menu/"+id, body, &updated); err != nil {
		return models.MenuItem{}, err
	}
	return updated, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/menu/"+id, nil, nil)
}
