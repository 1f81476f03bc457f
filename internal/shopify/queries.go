package shopify

// SearchFirstQueryTemplate finds the first resource matching a search query.
// The %s placeholders are the plural query field (e.g. "customers"); the
// search string itself is passed as a variable.
const SearchFirstQueryTemplate = `
query resolveID($value: String!) {
  %s(first: 1, query: $value) {
    edges {
      node {
        id
      }
    }
  }
}
`

// VariantParentBySKUQuery resolves a product by one of its variants' SKUs.
// Tag operations on products accept SKU identifiers this way.
const VariantParentBySKUQuery = `
query resolveProductBySKU($value: String!) {
  productVariants(first: 1, query: $value) {
    edges {
      node {
        product {
          id
        }
      }
    }
  }
}
`

// ProductByHandleQuery resolves a product directly by handle
const ProductByHandleQuery = `
query resolveProduct($value: String!) {
  productByHandle(handle: $value) {
    id
  }
}
`

// CollectionByHandleQuery resolves a collection directly by handle
const CollectionByHandleQuery = `
query resolveCollection($value: String!) {
  collectionByHandle(handle: $value) {
    id
  }
}
`

// MarketCatalogQuery resolves a market by title through the catalogs query
const MarketCatalogQuery = `
query resolveMarket($value: String!) {
  catalogs(first: 1, type: MARKET, query: $value) {
    nodes {
      id
    }
  }
}
`

// NodeTagsQuery fetches the current tag set of any taggable node
const NodeTagsQuery = `
query getTags($id: ID!) {
  node(id: $id) {
    ... on Product { tags }
    ... on Customer { tags }
    ... on Order { tags }
    ... on Article { tags }
  }
}
`

// MetafieldCheckQuery fetches one metafield by namespace+key on any owner.
// Works for all resource types via the HasMetafields interface.
const MetafieldCheckQuery = `
query checkMetafield($ownerId: ID!, $namespace: String!, $key: String!) {
  node(id: $ownerId) {
    ... on HasMetafields {
      metafield(namespace: $namespace, key: $key) {
        id
        namespace
        key
        type
        value
      }
    }
  }
}
`

// OwnerPageQueryTemplate fetches one page of owner ids for a resource type.
// %s is the plural query field.
const OwnerPageQueryTemplate = `
query ownerPage($first: Int!, $cursor: String) {
  %s(first: $first, after: $cursor) {
    edges {
      cursor
      node {
        id
      }
    }
    pageInfo {
      hasNextPage
    }
  }
}
`

// ProductTagsPageQuery walks the dedicated productTags connection
const ProductTagsPageQuery = `
query productTagsPage($first: Int!, $after: String) {
  productTags(first: $first, after: $after) {
    nodes
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}
`

// NodeTagsPageQueryTemplate walks tags of resources that expose them per
// node (customers, orders, articles). %s is the plural query field.
const NodeTagsPageQueryTemplate = `
query tagsPage($first: Int!, $after: String) {
  %s(first: $first, after: $after) {
    nodes {
      tags
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}
`

// TaggedPageQueryTemplate fetches one page of resources matching a tag
// search, with each node's full tag set. %s is the plural query field.
const TaggedPageQueryTemplate = `
query taggedPage($first: Int!, $cursor: String, $query: String!) {
  %s(first: $first, after: $cursor, query: $query) {
    edges {
      cursor
      node {
        id
        tags
      }
    }
    pageInfo {
      hasNextPage
    }
  }
}
`

// CountQueryTemplate fetches the approximate resource count. %s is the
// count field (e.g. productsCount).
const CountQueryTemplate = `
query {
  %s {
    count
  }
}
`

// MetaobjectByHandleQuery resolves a metaobject reference from a human handle
const MetaobjectByHandleQuery = `
query resolveMetaobject($type: String!, $handle: String!) {
  metaobjectByHandle(handle: {type: $type, handle: $handle}) {
    id
  }
}
`

// ShopIdentityQuery fetches the shop email and myshopify domain stamped on
// audit entries
const ShopIdentityQuery = `
query {
  shop {
    email
    myshopifyDomain
  }
}
`
