package client

import (
	"context"
	"net/http"
	"time"

	"github.com/sagebistro/reservation-app/models"
)

func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := c.do(ctx, http.MethodGet, "/api/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (c *Client) CreateTable(ctx context.Context, tableNumber string, capacity int) (models.Table, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	payload := models.Table{
		TableNumber: tableNumber,
		Capacity:    capacity,
		Status:      models.TableStatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created models.Table
	if err := c.do(ctx, http.MethodPost, "/api/tables", payload, &created); err != nil {
		return models.Table{}, err
	}
	return created, nil
}

// UpdateTable sends a partial update; updated_at is stamped here so callers
// never have to.
func (c *Client) UpdateTable(ctx context.Context, id string, updates map[string]interface{}) (models.Table, error) {
	body := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		body[k] = v
	}
	body["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	var updated models.Table
	if err := c.do(ctx, http.MethodPut, "/api/tables/"+id, body, &updated); err != nil {
		return models.Table{}, err
	}
	return updated, nil
}

func (c *Client) DeleteTable(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tables/"+id, nil, nil)
}
