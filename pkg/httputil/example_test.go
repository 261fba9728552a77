package httputil_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeWuws/th-governance-web-sub002/pkg/httputil"
)

func ExampleCache() {
	// Create a cache with 24-hour TTL in a temp directory
	dir := filepath.Join(os.TempDir(), "gridshape-example")
	cache, err := httputil.NewCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer os.RemoveAll(dir)

	// Store a value
	data := map[string]string{"source": "https://example.com/items.json", "etag": "v7"}
	if err := cache.Set("items", data); err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Retrieve the value
	var result map[string]string
	if ok, err := cache.Get("items", &result); ok && err == nil {
		fmt.Println("ETag:", result["etag"])
	}
	// Output:
	// ETag: v7
}

func ExampleCheckStatus() {
	fmt.Println(httputil.CheckStatus("https://example.com", 200))
	fmt.Println(httputil.CheckStatus("https://example.com", 404))
	// Output:
	// <nil>
	// GET https://example.com: 404 Not Found
}
