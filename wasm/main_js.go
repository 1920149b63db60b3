//go:build js && wasm

package main

import (
	"context"
	"syscall/js"

	"github.com/gunzino/tibia-outfit-worker/api"
	"github.com/gunzino/tibia-outfit-worker/codec"
	"github.com/gunzino/tibia-outfit-worker/outfit"
	"github.com/gunzino/tibia-outfit-worker/utils"
)

var renderer = outfit.NewRenderer(codec.Decoder{}, nil)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// renderOutfit(outfitTar, mountTar|null, "/animate/128?head=94") returns the
// encoded image, or an error string.
func renderOutfit(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.ValueOf("usage: renderOutfit(outfitTar, mountTar|null, request)")
	}
	outfitArc, _, err := outfit.DecodeBundle(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	var mountArc outfit.Archive
	if !args[1].IsNull() && !args[1].IsUndefined() {
		if mountArc, _, err = outfit.DecodeBundle(bytesFromJS(args[1])); err != nil {
			return js.ValueOf(err.Error())
		}
	}
	p, err := utils.ParseTarget(args[2].String())
	if err != nil {
		return js.ValueOf(err.Error())
	}
	res, err := api.RenderArchives(context.Background(), renderer, p, outfitArc, mountArc)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(res.Body)
}

// unpackBundle returns an object mapping entry names to Uint8Arrays.
func unpackBundle(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing bundle bytes")
	}
	arc, _, err := outfit.DecodeBundle(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	result := js.Global().Get("Object").New()
	for name, b := range arc {
		result.Set(name, bytesToJS(b))
	}
	return result
}

func main() {
	js.Global().Set("renderOutfit", js.FuncOf(renderOutfit))
	js.Global().Set("unpackBundle", js.FuncOf(unpackBundle))
	select {}
}
