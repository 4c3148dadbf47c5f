//go:build js && wasm

package jsstore

import "syscall/js"

var uint8ArrayCtor = js.Global().Get("Uint8Array")

func bytesToJS(b []byte) js.Value {
	arr := uint8ArrayCtor.New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

func jsToBytes(v js.Value) []byte {
	b := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(b, v)
	return b
}
