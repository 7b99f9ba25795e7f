package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	rshttp "github.com/fivetwenty-io/responsys-client/internal/http"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// ListsClient implements responsys.ListsClient.
type ListsClient struct {
	dispatcher *Dispatcher
	account    string
	cache      responsys.Cache
	cacheTTL   time.Duration
	logger     rshttp.Logger
}

// NewListsClient creates a new lists client. A nil cache disables caching.
// Cache keys are scoped to account, so clients for different accounts can
// share one cache.
func NewListsClient(dispatcher *Dispatcher, account string, cache responsys.Cache, cacheTTL time.Duration, logger rshttp.Logger) *ListsClient {
	if cacheTTL <= 0 {
		cacheTTL = constants.DefaultCacheTTL
	}

	return &ListsClient{
		dispatcher: dispatcher,
		account:    account,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// List implements responsys.ListsClient.List.
func (c *ListsClient) List(ctx context.Context) ([]responsys.ProfileList, error) {
	path := constants.ListsPath

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("listing profile lists: %w", err)
	}

	var lists []responsys.ProfileList

	err = decode(http.MethodGet, path, &rshttp.Response{Body: body}, &lists)
	if err != nil {
		return nil, err
	}

	return lists, nil
}

// ListExtensions implements responsys.ListsClient.ListExtensions.
func (c *ListsClient) ListExtensions(ctx context.Context, profileList string) ([]responsys.ListExtension, error) {
	path := constants.ListsPath + "/" + url.PathEscape(profileList) + "/listExtensions"

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("listing extensions of %s: %w", profileList, err)
	}

	var extensions []responsys.ListExtension

	err = decode(http.MethodGet, path, &rshttp.Response{Body: body}, &extensions)
	if err != nil {
		return nil, err
	}

	return extensions, nil
}

// get returns the body of a successful GET, served from the cache when possible.
func (c *ListsClient) get(ctx context.Context, path string) ([]byte, error) {
	key := c.account + "|" + http.MethodGet + ":" + path

	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		if err == nil {
			c.logger.Debug("Cache hit", map[string]interface{}{"key": key})

			return entry.Data, nil
		}
	}

	resp, err := c.dispatcher.Send(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	err = checkResponse(http.MethodGet, path, resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		err = c.cache.Set(ctx, key, &responsys.CacheEntry{
			Data:      resp.Body,
			ExpiresAt: time.Now().Add(c.cacheTTL),
		})
		if err != nil {
			c.logger.Warn("Failed to cache response", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return resp.Body, nil
}
