package grpc

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// StatusInfo is the daemon's answer to a status request
type StatusInfo struct {
	Status    string
	UpdatedAt time.Time
	Running   bool
	State     string
	Pending   int
}

// ToProtobufStatus encodes a StatusInfo as a protobuf Struct
func ToProtobufStatus(info StatusInfo) *structpb.Struct {
	updated := ""
	if !info.UpdatedAt.IsZero() {
		updated = info.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"status":     structpb.NewStringValue(info.Status),
		"updated_at": structpb.NewStringValue(updated),
		"running":    structpb.NewBoolValue(info.Running),
		"state":      structpb.NewStringValue(info.State),
		"pending":    structpb.NewNumberValue(float64(info.Pending)),
	}}
}

// FromProtobufStatus decodes a protobuf Struct; missing fields keep their zero value
func FromProtobufStatus(s *structpb.Struct) StatusInfo {
	info := StatusInfo{
		Status:  stringField(s, "status"),
		Running: s.GetFields()["running"].GetBoolValue(),
		State:   stringField(s, "state"),
		Pending: int(s.GetFields()["pending"].GetNumberValue()),
	}
	if t, err := time.Parse(time.RFC3339Nano, stringField(s, "updated_at")); err == nil {
		info.UpdatedAt = t
	}
	return info
}

// ToProtobufTarget encodes an enqueue request
func ToProtobufTarget(name, address string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"name":    structpb.NewStringValue(name),
		"address": structpb.NewStringValue(address),
	}}
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}
