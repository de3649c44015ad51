package models

import (
	"gorm.io/datatypes"
)

var (
	emptyJSONArray  = datatypes.JSON("[]")
	emptyJSONObject = datatypes.JSON("{}")
)

func orEmptyArray(j datatypes.JSON) datatypes.JSON {
	if len(j) == 0 || string(j) == "null" {
		return emptyJSONArray
	}
	return j
}

func orEmptyObject(j datatypes.JSON) datatypes.JSON {
	if len(j) == 0 || string(j) == "null" {
		return emptyJSONObject
	}
	return j
}

// Normalize replaces absent JSON columns with their empty shape.
func (p *Project) Normalize() {
	p.BidSupplements = orEmptyArray(p.BidSupplements)
	p.DocumentRequests = orEmptyArray(p.DocumentRequests)
	p.PreBidConferences = orEmptyArray(p.PreBidConferences)
}

// Normalize replaces absent JSON columns with their empty shape.
func (a *ProjectAttachment) Normalize() {
	a.Metadata = orEmptyObject(a.Metadata)
}

// Normalize fills absent JSON columns, tags, status and environment.
func (r *ClientRepository) Normalize() {
	r.Integrations = orEmptyArray(r.Integrations)
	r.Licenses = orEmptyArray(r.Licenses)
	r.Contacts = orEmptyArray(r.Contacts)
	r.Compliance = orEmptyArray(r.Compliance)
	r.Spec = orEmptyObject(r.Spec)
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Status == "" {
		r.Status = RepositoryStatuses[0]
	}
	if r.Environment == "" {
		r.Environment = RepositoryEnvironments[0]
	}
}

// Normalize makes sure keywords serialise as an empty array.
func (c *Client) Normalize() {
	if c.Keywords == nil {
		c.Keywords = []string{}
	}
}
