package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Every kiosk RPC exchanges google.protobuf.Struct messages. The field names
// match the JSON bodies of the HTTP API.

const (
	FeedbackServiceName = "kiosk.v1.FeedbackService"
	ReportServiceName   = "kiosk.v1.ReportService"

	FeedbackServiceEnsureFeedback = "/kiosk.v1.FeedbackService/EnsureFeedback"
	FeedbackServiceAttachStaff    = "/kiosk.v1.FeedbackService/AttachStaff"
	FeedbackServiceAttachReason   = "/kiosk.v1.FeedbackService/AttachReason"
	FeedbackServiceGetFeedback    = "/kiosk.v1.FeedbackService/GetFeedback"

	ReportServiceStaffSelectionCounts   = "/kiosk.v1.ReportService/StaffSelectionCounts"
	ReportServiceDissatisfactionSummary = "/kiosk.v1.ReportService/DissatisfactionSummary"
	ReportServiceTrendSeries            = "/kiosk.v1.ReportService/TrendSeries"
	ReportServiceListStaff              = "/kiosk.v1.ReportService/ListStaff"
	ReportServiceListReasons            = "/kiosk.v1.ReportService/ListReasons"
	ReportServiceListEmotions           = "/kiosk.v1.ReportService/ListEmotions"
)

// FeedbackServiceServer is the server API for kiosk.v1.FeedbackService.
type FeedbackServiceServer interface {
	EnsureFeedback(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AttachStaff(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AttachReason(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFeedback(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ReportServiceServer is the server API for kiosk.v1.ReportService.
type ReportServiceServer interface {
	StaffSelectionCounts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DissatisfactionSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TrendSeries(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListStaff(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListReasons(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEmotions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// unaryHandler adapts a server method to grpc.MethodHandler, running it
// through the interceptor chain when one is installed.
func unaryHandler[S any](fullMethod string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var FeedbackServiceDesc = grpc.ServiceDesc{
	ServiceName: FeedbackServiceName,
	HandlerType: (*FeedbackServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "EnsureFeedback", Handler: unaryHandler(FeedbackServiceEnsureFeedback, FeedbackServiceServer.EnsureFeedback)},
		{MethodName: "AttachStaff", Handler: unaryHandler(FeedbackServiceAttachStaff, FeedbackServiceServer.AttachStaff)},
		{MethodName: "AttachReason", Handler: unaryHandler(FeedbackServiceAttachReason, FeedbackServiceServer.AttachReason)},
		{MethodName: "GetFeedback", Handler: unaryHandler(FeedbackServiceGetFeedback, FeedbackServiceServer.GetFeedback)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kiosk/v1/kiosk.proto",
}

var ReportServiceDesc = grpc.ServiceDesc{
	ServiceName: ReportServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StaffSelectionCounts", Handler: unaryHandler(ReportServiceStaffSelectionCounts, ReportServiceServer.StaffSelectionCounts)},
		{MethodName: "DissatisfactionSummary", Handler: unaryHandler(ReportServiceDissatisfactionSummary, ReportServiceServer.DissatisfactionSummary)},
		{MethodName: "TrendSeries", Handler: unaryHandler(ReportServiceTrendSeries, ReportServiceServer.TrendSeries)},
		{MethodName: "ListStaff", Handler: unaryHandler(ReportServiceListStaff, ReportServiceServer.ListStaff)},
		{MethodName: "ListReasons", Handler: unaryHandler(ReportServiceListReasons, ReportServiceServer.ListReasons)},
		{MethodName: "ListEmotions", Handler: unaryHandler(ReportServiceListEmotions, ReportServiceServer.ListEmotions)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kiosk/v1/kiosk.proto",
}

func RegisterFeedbackServiceServer(s grpc.ServiceRegistrar, srv FeedbackServiceServer) {
	s.RegisterService(&FeedbackServiceDesc, srv)
}

func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportServiceDesc, srv)
}

// Client calls kiosk RPCs by full method name.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes fullMethod with fields as the request message.
func (c *Client) Call(ctx context.Context, fullMethod string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
