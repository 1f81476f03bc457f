package domain

// ObjectType identifies which kind of Shopify resource an operation targets.
type ObjectType string

const (
	ObjectTypeProduct         ObjectType = "product"
	ObjectTypeVariant         ObjectType = "variant"
	ObjectTypeCollection      ObjectType = "collection"
	ObjectTypeCustomer        ObjectType = "customer"
	ObjectTypeOrder           ObjectType = "order"
	ObjectTypeCompany         ObjectType = "company"
	ObjectTypeCompanyLocation ObjectType = "companyLocation"
	ObjectTypeLocation        ObjectType = "location"
	ObjectTypePage            ObjectType = "page"
	ObjectTypeBlog            ObjectType = "blog"
	ObjectTypeBlogPost        ObjectType = "blogPost"
	ObjectTypeArticle         ObjectType = "article"
	ObjectTypeMarket          ObjectType = "market"
)

// IsValid checks if the object type is one we support
func (t ObjectType) IsValid() bool {
	switch t {
	case ObjectTypeProduct,
		ObjectTypeVariant,
		ObjectTypeCollection,
		ObjectTypeCustomer,
		ObjectTypeOrder,
		ObjectTypeCompany,
		ObjectTypeCompanyLocation,
		ObjectTypeLocation,
		ObjectTypePage,
		ObjectTypeBlog,
		ObjectTypeBlogPost,
		ObjectTypeArticle,
		ObjectTypeMarket:
		return true
	default:
		return false
	}
}

// GIDTypeName returns the type segment Shopify embeds in this object's GID
// (gid://shopify/<TypeName>/<id>). blogPost maps to Article because the
// Admin API has no BlogPost type.
func (t ObjectType) GIDTypeName() string {
	switch t {
	case ObjectTypeProduct:
		return "Product"
	case ObjectTypeVariant:
		return "ProductVariant"
	case ObjectTypeCollection:
		return "Collection"
	case ObjectTypeCustomer:
		return "Customer"
	case ObjectTypeOrder:
		return "Order"
	case ObjectTypeCompany:
		return "Company"
	case ObjectTypeCompanyLocation:
		return "CompanyLocation"
	case ObjectTypeLocation:
		return "Location"
	case ObjectTypePage:
		return "Page"
	case ObjectTypeBlog:
		return "Blog"
	case ObjectTypeBlogPost, ObjectTypeArticle:
		return "Article"
	case ObjectTypeMarket:
		return "Market"
	default:
		return ""
	}
}

// QueryField returns the plural Admin API query field for this type
// (products, productVariants, ...).
func (t ObjectType) QueryField() string {
	switch t {
	case ObjectTypeProduct:
		return "products"
	case ObjectTypeVariant:
		return "productVariants"
	case ObjectTypeCollection:
		return "collections"
	case ObjectTypeCustomer:
		return "customers"
	case ObjectTypeOrder:
		return "orders"
	case ObjectTypeCompany:
		return "companies"
	case ObjectTypeCompanyLocation:
		return "companyLocations"
	case ObjectTypeLocation:
		return "locations"
	case ObjectTypePage:
		return "pages"
	case ObjectTypeBlog:
		return "blogs"
	case ObjectTypeBlogPost, ObjectTypeArticle:
		return "articles"
	case ObjectTypeMarket:
		return "markets"
	default:
		return ""
	}
}

// CountField returns the Admin API count query field for this type, or ""
// when the type has no count query.
func (t ObjectType) CountField() string {
	switch t {
	case ObjectTypeProduct:
		return "productsCount"
	case ObjectTypeVariant:
		return "productVariantsCount"
	case ObjectTypeCollection:
		return "collectionsCount"
	case ObjectTypeCustomer:
		return "customersCount"
	case ObjectTypeOrder:
		return "ordersCount"
	case ObjectTypeCompany:
		return "companiesCount"
	case ObjectTypeCompanyLocation:
		return "companyLocationsCount"
	case ObjectTypeLocation:
		return "locationsCount"
	case ObjectTypePage:
		return "pagesCount"
	case ObjectTypeBlog:
		return "blogsCount"
	case ObjectTypeBlogPost, ObjectTypeArticle:
		return "articlesCount"
	case ObjectTypeMarket:
		return "marketsCount"
	default:
		return ""
	}
}

// Operation is the kind of completed batch recorded in the audit log.
type Operation string

const (
	OperationTagsAdded        Operation = "Tags-Added"
	OperationTagsRemoved      Operation = "Tags-removed"
	OperationMetafieldRemoved Operation = "Metafield-removed"
	OperationMetafieldUpdated Operation = "Metafield-updated"
)

// IsValid checks if the operation is one we record
func (o Operation) IsValid() bool {
	switch o {
	case OperationTagsAdded, OperationTagsRemoved, OperationMetafieldRemoved, OperationMetafieldUpdated:
		return true
	default:
		return false
	}
}

// IdentifierKind is the CSV column the user supplies identifiers in.
type IdentifierKind string

const (
	IdentifierID         IdentifierKind = "Id"
	IdentifierSKU        IdentifierKind = "Sku"
	IdentifierEmail      IdentifierKind = "Email"
	IdentifierName       IdentifierKind = "Name"
	IdentifierHandle     IdentifierKind = "Handle"
	IdentifierExternalID IdentifierKind = "External_ID"
)

// Column returns the lowercase header the CSV importer matches on.
func (k IdentifierKind) Column() string {
	switch k {
	case IdentifierID:
		return "id"
	case IdentifierSKU:
		return "sku"
	case IdentifierEmail:
		return "email"
	case IdentifierName:
		return "name"
	case IdentifierHandle:
		return "handle"
	case IdentifierExternalID:
		return "external_id"
	default:
		return ""
	}
}

// AlternateIdentifier returns the non-GID identifier column offered for an
// object type (the original CSV templates: product/page/blog/blogPost use
// Handle, customer Email, order/location Name, variant Sku, company and
// companyLocation External_ID).
func AlternateIdentifier(t ObjectType) IdentifierKind {
	switch t {
	case ObjectTypeCustomer:
		return IdentifierEmail
	case ObjectTypeOrder, ObjectTypeLocation:
		return IdentifierName
	case ObjectTypeVariant:
		return IdentifierSKU
	case ObjectTypeCompany, ObjectTypeCompanyLocation:
		return IdentifierExternalID
	default:
		return IdentifierHandle
	}
}
