//go:build js && wasm

package jsstore

import (
	"context"
	"fmt"
	"syscall/js"
)

// awaitRequest blocks until an IDBRequest's onsuccess or onerror fires,
// returning the request's .result on success. ctx cancellation does not
// abort the underlying IndexedDB operation (IndexedDB has no cancel), it
// only stops waiting for it.
func awaitRequest(ctx context.Context, req js.Value) (js.Value, error) {
	type outcome struct {
		val js.Value
		err error
	}
	done := make(chan outcome, 1)

	var onSuccess, onError js.Func
	onSuccess = js.FuncOf(func(this js.Value, args []js.Value) any {
		onSuccess.Release()
		onError.Release()
		done <- outcome{val: req.Get("result")}
		return nil
	})
	onError = js.FuncOf(func(this js.Value, args []js.Value) any {
		onSuccess.Release()
		onError.Release()
		errVal := req.Get("error")
		done <- outcome{err: fmt.Errorf("idb request failed: %s", errVal.Get("message").String())}
		return nil
	})
	req.Set("onsuccess", onSuccess)
	req.Set("onerror", onError)

	select {
	case o := <-done:
		return o.val, o.err
	case <-ctx.Done():
		return js.Value{}, ctx.Err()
	}
}

// openDatabase opens dbName at schemaVersion, creating the headers,
// sampling, and ranges object stores (plus the headers hash/height
// indices) on first open or on a version bump.
func openDatabase(ctx context.Context, dbName string) (js.Value, error) {
	indexedDB := js.Global().Get("indexedDB")
	req := indexedDB.Call("open", dbName, schemaVersion)

	var onUpgrade js.Func
	onUpgrade = js.FuncOf(func(this js.Value, args []js.Value) any {
		db := req.Get("result")

		if !db.Call("objectStoreNames").Call("contains", headerStoreName).Bool() {
			headers := db.Call("createObjectStore", headerStoreName, map[string]any{
				"keyPath":       "height",
				"autoIncrement": false,
			})
			headers.Call("createIndex", hashIndexName, "hash", map[string]any{"unique": true})
			headers.Call("createIndex", heightIndexName, "height", map[string]any{"unique": true})
		}
		if !db.Call("objectStoreNames").Call("contains", samplingStoreName).Bool() {
			db.Call("createObjectStore", samplingStoreName, map[string]any{"keyPath": "height"})
		}
		if !db.Call("objectStoreNames").Call("contains", rangesStoreName).Bool() {
			db.Call("createObjectStore", rangesStoreName)
		}
		return nil
	})
	req.Set("onupgradeneeded", onUpgrade)

	result, err := awaitRequest(ctx, req)
	onUpgrade.Release()
	return result, err
}

func (s *Store) transaction(mode string, stores ...string) js.Value {
	storeNames := make([]any, len(stores))
	for i, n := range stores {
		storeNames[i] = n
	}
	return s.db.Call("transaction", storeNames, mode)
}
