package buffer

import "github.com/finchdb/finchdb/storage/page"

// PageSize and InvalidPageID are re-exported from storage/page as the
// buffer pool manager's own public constants, since callers that only
// import buffer (index, table heap, catalog) shouldn't need to reach
// into storage/page just to compare against the sentinel.
const PageSize = page.Size

// InvalidPageID is the sentinel meaning "no page".
const InvalidPageID = page.InvalidID
