// Package posv1 declares the pos.v1 gRPC services. Every request and response
// body is a google.protobuf.Struct, so the descriptors are written by hand in
// the shape protoc-gen-go-grpc would emit.
package posv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ProductServiceName   = "pos.v1.ProductService"
	InventoryServiceName = "pos.v1.InventoryService"
	SaleServiceName      = "pos.v1.SaleService"
	ReportServiceName    = "pos.v1.ReportService"
	CategoryServiceName  = "pos.v1.CategoryService"
)

// Full method names, usable with Invoke.
const (
	ProductService_ListProducts_FullMethodName   = "/" + ProductServiceName + "/ListProducts"
	ProductService_SearchProducts_FullMethodName = "/" + ProductServiceName + "/SearchProducts"
	ProductService_GetProduct_FullMethodName     = "/" + ProductServiceName + "/GetProduct"
	ProductService_CreateProduct_FullMethodName  = "/" + ProductServiceName + "/CreateProduct"
	ProductService_UpdateProduct_FullMethodName  = "/" + ProductServiceName + "/UpdateProduct"
	ProductService_DeleteProduct_FullMethodName  = "/" + ProductServiceName + "/DeleteProduct"

	InventoryService_AdjustStock_FullMethodName   = "/" + InventoryServiceName + "/AdjustStock"
	InventoryService_ListMovements_FullMethodName = "/" + InventoryServiceName + "/ListMovements"

	SaleService_ProcessSale_FullMethodName = "/" + SaleServiceName + "/ProcessSale"
	SaleService_ListSales_FullMethodName   = "/" + SaleServiceName + "/ListSales"

	ReportService_DailyReport_FullMethodName = "/" + ReportServiceName + "/DailyReport"

	CategoryService_ListCategories_FullMethodName = "/" + CategoryServiceName + "/ListCategories"
)

// Method is the signature shared by every pos.v1 RPC.
type Method func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// Invoke calls a unary pos.v1 method by its full name.
func Invoke(ctx context.Context, cc grpc.ClientConnInterface, fullMethod string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, fullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// unary adapts a per-service method selector to a grpc.MethodHandler.
func unary[S any](fullMethod string, pick func(srv S) Method) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		call := pick(srv.(S))
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

// --- ProductService ---

type ProductServiceServer interface {
	ListProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type UnimplementedProductServiceServer struct{}

func (UnimplementedProductServiceServer) ListProducts(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListProducts")
}
func (UnimplementedProductServiceServer) SearchProducts(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("SearchProducts")
}
func (UnimplementedProductServiceServer) GetProduct(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("GetProduct")
}
func (UnimplementedProductServiceServer) CreateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("CreateProduct")
}
func (UnimplementedProductServiceServer) UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("UpdateProduct")
}
func (UnimplementedProductServiceServer) DeleteProduct(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("DeleteProduct")
}

var ProductService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListProducts", Handler: unary(ProductService_ListProducts_FullMethodName, func(s ProductServiceServer) Method { return s.ListProducts })},
		{MethodName: "SearchProducts", Handler: unary(ProductService_SearchProducts_FullMethodName, func(s ProductServiceServer) Method { return s.SearchProducts })},
		{MethodName: "GetProduct", Handler: unary(ProductService_GetProduct_FullMethodName, func(s ProductServiceServer) Method { return s.GetProduct })},
		{MethodName: "CreateProduct", Handler: unary(ProductService_CreateProduct_FullMethodName, func(s ProductServiceServer) Method { return s.CreateProduct })},
		{MethodName: "UpdateProduct", Handler: unary(ProductService_UpdateProduct_FullMethodName, func(s ProductServiceServer) Method { return s.UpdateProduct })},
		{MethodName: "DeleteProduct", Handler: unary(ProductService_DeleteProduct_FullMethodName, func(s ProductServiceServer) Method { return s.DeleteProduct })},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pos/v1/pos.proto",
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductService_ServiceDesc, srv)
}

// --- InventoryService ---

type InventoryServiceServer interface {
	AdjustStock(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMovements(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type UnimplementedInventoryServiceServer struct{}

func (UnimplementedInventoryServiceServer) AdjustStock(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("AdjustStock")
}
func (UnimplementedInventoryServiceServer) ListMovements(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListMovements")
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AdjustStock", Handler: unary(InventoryService_AdjustStock_FullMethodName, func(s InventoryServiceServer) Method { return s.AdjustStock })},
		{MethodName: "ListMovements", Handler: unary(InventoryService_ListMovements_FullMethodName, func(s InventoryServiceServer) Method { return s.ListMovements })},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pos/v1/pos.proto",
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

// --- SaleService ---

type SaleServiceServer interface {
	ProcessSale(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSales(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type UnimplementedSaleServiceServer struct{}

func (UnimplementedSaleServiceServer) ProcessSale(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ProcessSale")
}
func (UnimplementedSaleServiceServer) ListSales(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListSales")
}

var SaleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SaleServiceName,
	HandlerType: (*SaleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ProcessSale", Handler: unary(SaleService_ProcessSale_FullMethodName, func(s SaleServiceServer) Method { return s.ProcessSale })},
		{MethodName: "ListSales", Handler: unary(SaleService_ListSales_FullMethodName, func(s SaleServiceServer) Method { return s.ListSales })},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pos/v1/pos.proto",
}

func RegisterSaleServiceServer(s grpc.ServiceRegistrar, srv SaleServiceServer) {
	s.RegisterService(&SaleService_ServiceDesc, srv)
}

// --- ReportService ---

type ReportServiceServer interface {
	DailyReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type UnimplementedReportServiceServer struct{}

func (UnimplementedReportServiceServer) DailyReport(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("DailyReport")
}

var ReportService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ReportServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "DailyReport", Handler: unary(ReportService_DailyReport_FullMethodName, func(s ReportServiceServer) Method { return s.DailyReport })},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pos/v1/pos.proto",
}

func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportService_ServiceDesc, srv)
}

// --- CategoryService ---

type CategoryServiceServer interface {
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type UnimplementedCategoryServiceServer struct{}

func (UnimplementedCategoryServiceServer) ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListCategories")
}

var CategoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CategoryServiceName,
	HandlerType: (*CategoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCategories", Handler: unary(CategoryService_ListCategories_FullMethodName, func(s CategoryServiceServer) Method { return s.ListCategories })},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pos/v1/pos.proto",
}

func RegisterCategoryServiceServer(s grpc.ServiceRegistrar, srv CategoryServiceServer) {
	s.RegisterService(&CategoryService_ServiceDesc, srv)
}
