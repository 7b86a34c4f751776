package turknet

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/shinji-kodama/turknet-query/internal/model"
	"github.com/shinji-kodama/turknet-query/internal/normalize"
)

const opCheckAvailability = "CheckServiceAvailability"

// inquirySourceWeb is the inquiry source the provider's web form reports.
const inquirySourceWeb = 2

type availabilityRequest struct {
	InquirySource           int    `json:"InquirySource"`
	IsInfrastructureInquiry bool   `json:"IsInfrastructureInquiry"`
	Key                     string `json:"Key"`
	Value                   string `json:"Value"`
}

// availabilityResponse mirrors the service payload. Field names follow
// the service verbatim, including its "Availablity" misspelling.
type availabilityResponse struct {
	Result struct {
		FiberServiceAvailablity struct {
			IsAvailable bool `json:"IsAvailable"`
			IsGigaFiber bool `json:"IsGigaFiber"`
			MaxCapacity int  `json:"MaxCapacity"`
		} `json:"FiberServiceAvailablity"`

		IsGigaFiberPlanned bool `json:"IsGigaFiberPlanned"`

		VAEFiberServiceAvailability struct {
			Description            json.RawMessage `json:"Description"`
			IsAvailable            bool            `json:"IsAvailable"`
			MaxCapacity            int             `json:"MaxCapacity"`
			MaxCapacityServiceType int             `json:"MaxCapacityServiceType"`
			NmsMax                 int             `json:"NmsMax"`
			Type                   int             `json:"Type"`
		} `json:"VAEFiberServiceAvailability"`

		VDSLServiceAvailability struct {
			Description            json.RawMessage `json:"Description"`
			IsAvailable            bool            `json:"IsAvailable"`
			MaxCapacity            int             `json:"MaxCapacity"`
			MaxCapacityServiceType int             `json:"MaxCapacityServiceType"`
			NmsMax                 int             `json:"NmsMax"`
		} `json:"VDSLServiceAvailability"`

		XDSLServiceAvailability struct {
			Description json.RawMessage `json:"Description"`
			IsAvailable bool            `json:"IsAvailable"`
			MaxCapacity int             `json:"MaxCapacity"`
			NmsMax      int             `json:"NmsMax"`
		} `json:"XDSLServiceAvailability"`

		YapaServiceAvailability struct {
			Description                     json.RawMessage `json:"Description"`
			IsAvailable                     bool            `json:"IsAvailable"`
			IsIndoor                        bool            `json:"IsIndoor"`
			IsTurknetStatusActiveForSantral bool            `json:"IsTurknetStatusActiveForSantral"`
		} `json:"YapaServiceAvailability"`
	} `json:"Result"`
}

// Query asks the service which technologies are available for a phone
// number (queryType "PSTN") or an apartment BBK code ("BBK"). The query
// type is matched case-insensitively and value must be all digits; both
// are checked before any network call.
func (c *Client) Query(ctx context.Context, queryType string, value string) (*model.AvailabilityResult, error) {
	qt, err := model.ParseQueryType(queryType)
	if err != nil {
		return nil, err
	}
	if !model.IsNumeric(value) {
		return nil, model.NewValidationError("query value %q must contain only digits", value)
	}

	if _, err := c.EnsureToken(ctx); err != nil {
		return nil, err
	}

	req := availabilityRequest{
		InquirySource:           inquirySourceWeb,
		IsInfrastructureInquiry: true,
		Key:                     qt.String(),
		Value:                   value,
	}
	var resp availabilityResponse
	if err := c.call(ctx, opCheckAvailability, req, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("availability received", zap.Stringer("type", qt), zap.String("value", value))
	return mapAvailability(&resp), nil
}

// QueryBBK queries availability by an apartment BBK code.
func (c *Client) QueryBBK(ctx context.Context, bbk model.Code) (*model.AvailabilityResult, error) {
	return c.Query(ctx, model.QueryBBK.String(), bbk.String())
}

func mapAvailability(resp *availabilityResponse) *model.AvailabilityResult {
	r := &resp.Result
	return &model.AvailabilityResult{
		TurknetFiber: model.FiberAvailability{
			IsAvailable:        r.FiberServiceAvailablity.IsAvailable,
			IsGigaFiber:        r.FiberServiceAvailablity.IsGigaFiber,
			IsGigaFiberPlanned: r.IsGigaFiberPlanned,
			MaxCapacity:        r.FiberServiceAvailablity.MaxCapacity,
		},
		VAEFiber: model.VAEFiberAvailability{
			IsAvailable:            r.VAEFiberServiceAvailability.IsAvailable,
			MaxCapacity:            r.VAEFiberServiceAvailability.MaxCapacity,
			MaxCapacityServiceType: r.VAEFiberServiceAvailability.MaxCapacityServiceType,
			NmsMax:                 r.VAEFiberServiceAvailability.NmsMax,
			Type:                   r.VAEFiberServiceAvailability.Type,
			Description:            normalize.Description(r.VAEFiberServiceAvailability.Description),
		},
		VDSL: model.VDSLAvailability{
			IsAvailable:            r.VDSLServiceAvailability.IsAvailable,
			MaxCapacity:            r.VDSLServiceAvailability.MaxCapacity,
			MaxCapacityServiceType: r.VDSLServiceAvailability.MaxCapacityServiceType,
			NmsMax:                 r.VDSLServiceAvailability.NmsMax,
			Description:            normalize.Description(r.VDSLServiceAvailability.Description),
		},
		XDSL: model.XDSLAvailability{
			IsAvailable: r.XDSLServiceAvailability.IsAvailable,
			MaxCapacity: r.XDSLServiceAvailability.MaxCapacity,
			NmsMax:      r.XDSLServiceAvailability.NmsMax,
			Description: normalize.Description(r.XDSLServiceAvailability.Description),
		},
		YAPA: model.YAPAAvailability{
			IsAvailable:               r.YapaServiceAvailability.IsAvailable,
			IsIndoor:                  r.YapaServiceAvailability.IsIndoor,
			IsTurknetActiveOnExchange: r.YapaServiceAvailability.IsTurknetStatusActiveForSantral,
			Description:               normalize.Description(r.YapaServiceAvailability.Description),
		},
	}
}
