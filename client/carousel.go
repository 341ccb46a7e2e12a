package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FallbackCarouselImages is shown when the carousel endpoint is unreachable so
// the landing page never renders empty.
var FallbackCarouselImages = []string{
	"https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?ixlib=rb-4.0.3&auto=format&fit=crop&w=1200&q=80",
	"https://images.unsplash.com/photo-1552566626-52f8b828add9?ixlib=rb-4.0.3&auto=format&fit=crop&w=1200&q=80",
	"https://images.unsplash.com/photo-1554679665-f5537f187268?ixlib=rb-4.0.3&auto=format&fit=crop&w=1200&q=80",
}

type carouselImages struct {
	Images []string `json:"images"`
}

func (c *Client) ListCarouselImages(ctx context.Context) ([]string, error) {
	var images []string
	if err := c.do(ctx, http.MethodGet, "/api/carousel-images", nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// ReplaceCarouselImages overwrites the full image list.
func (c *Client) ReplaceCarouselImages(ctx context.Context, images []string) ([]string, error) {
	var result carouselImages
	body := carouselImages{Images: images}
	if err := c.do(ctx, http.MethodPost, "/api/carousel-images", body, &result); err != nil {
		return nil, err
	}
	return result.Images, nil
}

func (c *Client) DeleteCarouselImage(ctx context.Context, index int) ([]string, error) {
	var result carouselImages
	path := fmt.Sprintf("/api/carousel-images/%d", index)
	if err := c.do(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Images, nil
}

// UpdateCarouselImage replaces the image at index with an uploaded file.
func (c *Client) UpdateCarouselImage(ctx context.Context, index int, filename string, file io.Reader) ([]string, error) {
	var result carouselImages
	path := fmt.Sprintf("/api/carousel-images/%d", index)
	if err := c.upload(ctx, http.MethodPut, path, filename, file, &result); err != nil {
		return nil, err
	}
	return result.Images, nil
}

func (c *Client) UploadCarouselImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	var result struct {
		URL string `json:"url"`
	}
	if err := c.upload(ctx, http.MethodPost, "/api/upload/carousel", filename, file, &result); err != nil {
		return "", err
	}
	return result.URL, nil
}

// UploadImage stores a menu image and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	var result struct {
		URL string `json:"url"`
	}
	if err := c.upload(ctx, http.MethodPost, "/api/upload", filename, file, &result); err != nil {
		return "", err
	}
	return result.URL, nil
}
