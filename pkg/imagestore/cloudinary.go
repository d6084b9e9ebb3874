package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/vaporlab/vaporlab-backend/pkg/config"
)

// Asset identifies an uploaded image at the media host.
type Asset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Uploader pushes image bytes to the remote store.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder string) (Asset, error)
}

// Deleter removes a remote image by its public identifier.
type Deleter interface {
	Delete(ctx context.Context, publicID string) error
}

// Client wraps the Cloudinary SDK behind the Uploader/Deleter surface.
type Client struct {
	cld        *cloudinary.Cloudinary
	baseFolder string
}

// New builds a Cloudinary-backed image store from the configured URL.
func New(cfg config.CloudinaryConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("cloudinary url is required")
	}
	cld, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("initializing cloudinary: %w", err)
	}
	return &Client{cld: cld, baseFolder: strings.Trim(cfg.BaseFolder, "/")}, nil
}

// Upload stores the image under baseFolder/folder and returns its handle.
func (c *Client) Upload(ctx context.Context, r io.Reader, folder string) (Asset, error) {
	truthy := true
	falsy := false

	publicID := uuid.NewString()
	result, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         c.folderPath(folder),
		UniqueFilename: &truthy,
		Overwrite:      &falsy,
		ResourceType:   "image",
	})
	if err != nil {
		return Asset{}, fmt.Errorf("uploading image: %w", err)
	}

	url := result.SecureURL
	if url == "" {
		url = forceHTTPS(result.URL)
	}
	return Asset{PublicID: result.PublicID, URL: url}, nil
}

// Delete destroys the remote image. Unknown identifiers are not an error.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return nil
	}
	if _, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	}); err != nil {
		return fmt.Errorf("deleting image %s: %w", publicID, err)
	}
	return nil
}

func (c *Client) folderPath(folder string) string {
	folder = strings.Trim(folder, "/")
	if c.baseFolder == "" {
		return folder
	}
	if folder == "" {
		return c.baseFolder
	}
	return path.Join(c.baseFolder, folder)
}

func forceHTTPS(url string) string {
	if strings.HasPrefix(url, "http://") {
		return "https://" + strings.TrimPrefix(url, "http://")
	}
	return url
}
