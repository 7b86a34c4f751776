package turknet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shinji-kodama/turknet-query/internal/model"
	"github.com/shinji-kodama/turknet-query/internal/normalize"
)

// levelEndpoint describes how the entries of one level are fetched:
// the operation name, the body key carrying the parent code and the
// response key holding the list.
type levelEndpoint struct {
	op      string
	bodyKey string
	listKey string
}

// levelEndpoints maps each resolvable level to its endpoint. The province
// level is not resolvable; its codes come from the static plate table.
var levelEndpoints = map[model.Level]levelEndpoint{
	model.LevelDistrict:     {op: "GetBBKCountyList", bodyKey: "IlKod", listKey: "lstIlce"},
	model.LevelSubDistrict:  {op: "GetBBKBucakList", bodyKey: "IlceKod", listKey: "lstBucak"},
	model.LevelVillage:      {op: "GetBBKKoyList", bodyKey: "BucakKod", listKey: "lstKoy"},
	model.LevelNeighborhood: {op: "GetBBKMahalleList", bodyKey: "KoyKod", listKey: "lstMahalle"},
	model.LevelStreet:       {op: "GetBBKCaddeList", bodyKey: "MahalleKod", listKey: "lstCadde"},
	model.LevelBuilding:     {op: "GetBBKBinaList", bodyKey: "CaddeKod", listKey: "lstBina"},
	model.LevelApartment:    {op: "GetBBKList", bodyKey: "BinaKod", listKey: "lstDaire"},
}

// listEntry is one element of a level list. Ids arrive as strings
// ("1234") from most endpoints and occasionally as bare numbers.
type listEntry struct {
	ID   json.RawMessage `json:"Id"`
	Name string          `json:"Name"`
}

// Children fetches the entries of level that belong to the parent code.
// The parent is a plate code for LevelDistrict and a BBK code otherwise.
func (c *Client) Children(ctx context.Context, level model.Level, parent model.Code) (*model.NamedCodeMap, error) {
	ep, ok := levelEndpoints[level]
	if !ok {
		return nil, model.NewValidationError("level %s cannot be resolved from the address service", level)
	}
	if level == model.LevelDistrict {
		if err := model.ValidatePlateCode(parent); err != nil {
			return nil, err
		}
	}

	if _, err := c.EnsureToken(ctx); err != nil {
		return nil, err
	}

	payload := map[string]string{ep.bodyKey: parent.String()}
	var resp map[string]json.RawMessage
	if err := c.call(ctx, ep.op, payload, &resp); err != nil {
		return nil, err
	}

	entries, err := decodeList(resp[ep.listKey])
	if err != nil {
		return nil, &model.TransportError{Op: ep.op, Err: err}
	}

	result := model.NewNamedCodeMap()
	for _, e := range entries {
		code, err := parseID(e.ID)
		if err != nil {
			return nil, &model.TransportError{Op: ep.op, Err: err}
		}
		result.Set(normalize.StripLineFeeds(e.Name), code)
	}

	c.logger.Debug("resolved address level",
		zap.Stringer("level", level),
		zap.Stringer("parent", parent),
		zap.Int("entries", result.Len()))

	return result, nil
}

// Districts lists the districts (ilçe) of a province plate code.
func (c *Client) Districts(ctx context.Context, province model.Code) (*model.NamedCodeMap, error) {
	return c.Children(ctx, model.LevelDistrict, province)
}

// SubDistricts lists the sub-districts (bucak) of a district.
func (c *Client) SubDistricts(ctx context.Context, district model.Code) (*model.NamedCodeMap, error) {
	return c.Children(ctx, model.LevelSubDistrict, district)
}

// Villages lists the villages (köy) of a sub-district.
func (c *Client) Villages(ctx context.Context, subDistrict model.Code) (*model.NamedCodeMap, error) {
	return c.Children(ctx, model.LevelVillage, subDistrict)
}

// Neighborhoods lists the neighborhoods (mahalle) of a village.
func (c *Client) Neighborhoods(ctx context.Context, village model.Code) (*model.NamedCodeMap, error) {
	return c.Children(ctx, model.LevelNeighborhood, village)
}

// Streets lists the streets (cadde/sokak) of a neighborhood.
func (c *Client) Streets(ctx context.Context, neighborhood model.Code) (*model.NamedCodeMap, error) {
	return c.Children(ctx, model.LevelStreet, neighborhood)
}

// Buildings lists the buildings of a street.
func (c *Client) Buildings(ctx context.Context, street model.Code) (*model.NamedCodeMap, error) {
	return c.Children(ctx, model.LevelBuilding, street)
}

// Apartments lists the apartments of a building. The returned codes are
// the BBK codes accepted by QueryBBK.
func (c *Client) Apartments(ctx context.Context, building model.Code) (*model.NamedCodeMap, error) {
	return c.Children(ctx, model.LevelApartment, building)
}

func decodeList(raw json.RawMessage) ([]listEntry, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var entries []listEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return entries, nil
}

// parseID accepts an id encoded either as a JSON string or a JSON number.
func parseID(raw json.RawMessage) (model.Code, error) {
	s := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %s", string(raw))
	}
	return model.Code(n), nil
}
