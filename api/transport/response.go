package transport

import "encoding/json"

// Envelope wraps every response body, success or error.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// ListMeta describes a collection response.
type ListMeta struct {
	Count  int    `json:"count"`
	Filter string `json:"filter,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewList is NewSuccess for collections; count is the number of items in data.
func NewList(data interface{}, count int, filter string) Envelope {
	return NewSuccess(data, ListMeta{Count: count, Filter: filter})
}

func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String is the JSON form of the envelope, "{}" if it cannot be encoded.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
