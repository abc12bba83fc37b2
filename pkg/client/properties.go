package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hostdesk/hostdesk/pkg/domain"
)

// PropertyFilter narrows a property listing. Zero values are omitted.
type PropertyFilter struct {
	GroupCode  string
	ActiveOnly bool
}

func (f PropertyFilter) query() Query {
	q := Query{"group_code": f.GroupCode}
	if f.ActiveOnly {
		q["active"] = true
	}
	return q
}

func propertyPath(code string) string {
	return "/properties/" + url.PathEscape(code)
}

func groupPath(code string) string {
	return "/property-groups/" + url.PathEscape(code)
}

// ListProperties fetches properties.
func (c *Client) ListProperties(ctx context.Context, f PropertyFilter) ([]domain.Property, error) {
	var props []domain.Property
	if err := c.get(ctx, "/properties", f.query(), &props); err != nil {
		return nil, fmt.Errorf("client.ListProperties: %w", err)
	}
	return props, nil
}

// GetProperty fetches a single property by code.
func (c *Client) GetProperty(ctx context.Context, code string) (*domain.Property, error) {
	var p domain.Property
	if err := c.get(ctx, propertyPath(code), nil, &p); err != nil {
		return nil, fmt.Errorf("client.GetProperty: %w", err)
	}
	return &p, nil
}

// CreateProperty creates a new property.
func (c *Client) CreateProperty(ctx context.Context, in domain.PropertyInput) (*domain.Property, error) {
	var p domain.Property
	if err := c.post(ctx, "/properties", in, &p); err != nil {
		return nil, fmt.Errorf("client.CreateProperty: %w", err)
	}
	return &p, nil
}

// ReplaceProperty replaces a property in full.
func (c *Client) ReplaceProperty(ctx context.Context, code string, in domain.PropertyInput) (*domain.Property, error) {
	var p domain.Property
	if err := c.put(ctx, propertyPath(code), in, &p); err != nil {
		return nil, fmt.Errorf("client.ReplaceProperty: %w", err)
	}
	return &p, nil
}

// UpdateProperty applies a partial update to a property.
func (c *Client) UpdateProperty(ctx context.Context, code string, u domain.PropertyUpdate) (*domain.Property, error) {
	var p domain.Property
	if err := c.patch(ctx, propertyPath(code), u, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProperty: %w", err)
	}
	return &p, nil
}

// DeleteProperty deletes a property.
func (c *Client) DeleteProperty(ctx context.Context, code string) error {
	if err := c.delete(ctx, propertyPath(code)); err != nil {
		return fmt.Errorf("client.DeleteProperty: %w", err)
	}
	return nil
}

// --- Property groups ---

// ListPropertyGroups fetches all property groups.
func (c *Client) ListPropertyGroups(ctx context.Context) ([]domain.PropertyGroup, error) {
	var groups []domain.PropertyGroup
	if err := c.get(ctx, "/property-groups", nil, &groups); err != nil {
		return nil, fmt.Errorf("client.ListPropertyGroups: %w", err)
	}
	return groups, nil
}

// CreatePropertyGroup creates a property group.
func (c *Client) CreatePropertyGroup(ctx context.Context, in domain.PropertyGroupInput) (*domain.PropertyGroup, error) {
	var g domain.PropertyGroup
	if err := c.post(ctx, "/property-groups", in, &g); err != nil {
		return nil, fmt.Errorf("client.CreatePropertyGroup: %w", err)
	}
	return &g, nil
}

// ReplacePropertyGroup replaces a property group in full.
func (c *Client) ReplacePropertyGroup(ctx context.Context, code string, in domain.PropertyGroupInput) (*domain.PropertyGroup, error) {
	var g domain.PropertyGroup
	if err := c.put(ctx, groupPath(code), in, &g); err != nil {
		return nil, fmt.Errorf("client.ReplacePropertyGroup: %w", err)
	}
	return &g, nil
}

// DeletePropertyGroup deletes a property group.
func (c *Client) DeletePropertyGroup(ctx context.Context, code string) error {
	if err := c.delete(ctx, groupPath(code)); err != nil {
		return fmt.Errorf("client.DeletePropertyGroup: %w", err)
	}
	return nil
}

// AddPropertyToGroup adds a property to a group.
func (c *Client) AddPropertyToGroup(ctx context.Context, groupCode, propertyCode string) error {
	path := groupPath(groupCode) + "/properties/" + url.PathEscape(propertyCode)
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("client.AddPropertyToGroup: %w", err)
	}
	return nil
}

// RemovePropertyFromGroup removes a property from a group.
func (c *Client) RemovePropertyFromGroup(ctx context.Context, groupCode, propertyCode string) error {
	path := groupPath(groupCode) + "/properties/" + url.PathEscape(propertyCode)
	if err := c.delete(ctx, path); err != nil {
		return fmt.Errorf("client.RemovePropertyFromGroup: %w", err)
	}
	return nil
}

// --- OTA mappings ---

// ListOTAMappings fetches the OTA mappings of a property.
func (c *Client) ListOTAMappings(ctx context.Context, propertyCode string) ([]domain.OTAMapping, error) {
	var mappings []domain.OTAMapping
	if err := c.get(ctx, propertyPath(propertyCode)+"/ota-mappings", nil, &mappings); err != nil {
		return nil, fmt.Errorf("client.ListOTAMappings: %w", err)
	}
	return mappings, nil
}

// CreateOTAMapping links a property to an OTA listing.
func (c *Client) CreateOTAMapping(ctx context.Context, propertyCode string, in domain.OTAMappingInput) (*domain.OTAMapping, error) {
	var m domain.OTAMapping
	if err := c.post(ctx, propertyPath(propertyCode)+"/ota-mappings", in, &m); err != nil {
		return nil, fmt.Errorf("client.CreateOTAMapping: %w", err)
	}
	return &m, nil
}

// DeleteOTAMapping removes an OTA mapping.
func (c *Client) DeleteOTAMapping(ctx context.Context, propertyCode string, id uuid.UUID) error {
	if err := c.delete(ctx, propertyPath(propertyCode)+"/ota-mappings/"+id.String()); err != nil {
		return fmt.Errorf("client.DeleteOTAMapping: %w", err)
	}
	return nil
}

// FilterOptions are the lists used to populate reservation filters.
type FilterOptions struct {
	Properties []domain.Property
	Groups     []domain.PropertyGroup
}

// LoadFilterOptions fetches properties and property groups concurrently and
// waits for both. If either request fails the whole call fails.
func (c *Client) LoadFilterOptions(ctx context.Context) (*FilterOptions, error) {
	var opts FilterOptions
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		props, err := c.ListProperties(gctx, PropertyFilter{})
		opts.Properties = props
		return err
	})
	g.Go(func() error {
		groups, err := c.ListPropertyGroups(gctx)
		opts.Groups = groups
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("client.LoadFilterOptions: %w", err)
	}
	return &opts, nil
}
