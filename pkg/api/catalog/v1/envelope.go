package catalogv1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Version is the contract version carried in every envelope.
const Version = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported contract version")
	ErrUnknownOp          = errors.New("unknown operation")
	ErrMalformedPayload   = errors.New("malformed payload")
)

// Envelope carries one request or response message together with its
// operation name and contract version.
type Envelope struct {
	Version int             `json:"version"`
	Op      Op              `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewRequestEnvelope wraps req for the wire.
func NewRequestEnvelope(req Request) (*Envelope, error) {
	return newEnvelope(req.Op(), req)
}

// NewResponseEnvelope wraps resp for the wire.
func NewResponseEnvelope(resp Response) (*Envelope, error) {
	return newEnvelope(resp.Op(), resp)
}

func newEnvelope(op Op, msg any) (*Envelope, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", op, err)
	}
	return &Envelope{Version: Version, Op: op, Payload: payload}, nil
}

// Request decodes the request message held by the envelope.
func (e *Envelope) Request() (Request, error) {
	if err := e.checkVersion(); err != nil {
		return nil, err
	}
	decode, ok := requestDecoders[e.Op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, e.Op)
	}
	return decode(e.Payload)
}

// Response decodes the response message held by the envelope.
func (e *Envelope) Response() (Response, error) {
	if err := e.checkVersion(); err != nil {
		return nil, err
	}
	decode, ok := responseDecoders[e.Op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, e.Op)
	}
	return decode(e.Payload)
}

func (e *Envelope) checkVersion() error {
	if e.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, e.Version)
	}
	return nil
}

var requestDecoders = map[Op]func(json.RawMessage) (Request, error){
	OpListProducts:   decodeRequest[ListProductsRequest],
	OpGetProduct:     decodeRequest[GetProductRequest],
	OpListCategories: decodeRequest[ListCategoriesRequest],
	OpGetCategory:    decodeRequest[GetCategoryRequest],
	OpCreateCategory: decodeRequest[CreateCategoryRequest],
	OpUpdateCategory: decodeRequest[UpdateCategoryRequest],
	OpDeleteCategory: decodeRequest[DeleteCategoryRequest],
	OpCreateProduct:  decodeRequest[CreateProductRequest],
	OpAdjustPrice:    decodeRequest[AdjustPriceRequest],
	OpAdjustQuantity: decodeRequest[AdjustQuantityRequest],
	OpStockValuation: decodeRequest[StockValuationRequest],
	OpPriceList:      decodeRequest[PriceListRequest],
}

var responseDecoders = map[Op]func(json.RawMessage) (Response, error){
	OpListProducts:   decodeResponse[ListProductsResponse],
	OpGetProduct:     decodeResponse[GetProductResponse],
	OpListCategories: decodeResponse[ListCategoriesResponse],
	OpGetCategory:    decodeResponse[GetCategoryResponse],
	OpCreateCategory: decodeResponse[CreateCategoryResponse],
	OpUpdateCategory: decodeResponse[UpdateCategoryResponse],
	OpDeleteCategory: decodeResponse[DeleteCategoryResponse],
	OpCreateProduct:  decodeResponse[CreateProductResponse],
	OpAdjustPrice:    decodeResponse[AdjustPriceResponse],
	OpAdjustQuantity: decodeResponse[AdjustQuantityResponse],
	OpStockValuation: decodeResponse[StockValuationResponse],
	OpPriceList:      decodeResponse[PriceListResponse],
}

func decodeRequest[T Request](payload json.RawMessage) (Request, error) {
	var msg T
	if err := unmarshalPayload(payload, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func decodeResponse[T Response](payload json.RawMessage) (Response, error) {
	var msg T
	if err := unmarshalPayload(payload, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// unmarshalPayload decodes payload into dst. An empty payload leaves dst at its zero value.
// Fields the message does not define and trailing data are rejected.
func unmarshalPayload(payload json.RawMessage, dst any) error {
	if len(payload) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after message", ErrMalformedPayload)
	}
	return nil
}
