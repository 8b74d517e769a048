package types

import (
	"encoding/json"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
	"github.com/cosmos/cosmos-sdk/codec"
)

// RegisterLegacyAminoCodec registers the module messages for amino JSON.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgPause{}, "stacksguard/MsgPause", nil)
	cdc.RegisterConcrete(&MsgUnpause{}, "stacksguard/MsgUnpause", nil)
	cdc.RegisterConcrete(&MsgSetProtocolFeeRate{}, "stacksguard/MsgSetProtocolFeeRate", nil)
	cdc.RegisterConcrete(&MsgTransferOwnership{}, "stacksguard/MsgTransferOwnership", nil)
	cdc.RegisterConcrete(&MsgCreatePool{}, "stacksguard/MsgCreatePool", nil)
	cdc.RegisterConcrete(&MsgStake{}, "stacksguard/MsgStake", nil)
	cdc.RegisterConcrete(&MsgUnstake{}, "stacksguard/MsgUnstake", nil)
	cdc.RegisterConcrete(&MsgPurchasePolicy{}, "stacksguard/MsgPurchasePolicy", nil)
	cdc.RegisterConcrete(&MsgSubmitClaim{}, "stacksguard/MsgSubmitClaim", nil)
	cdc.RegisterConcrete(&MsgVoteOnClaim{}, "stacksguard/MsgVoteOnClaim", nil)
	cdc.RegisterConcrete(&MsgProcessClaim{}, "stacksguard/MsgProcessClaim", nil)
}

// jsonValue stores module records as JSON in collections.
type jsonValue[T any] struct {
	name string
}

// JSONValue returns a collections value codec that encodes T as JSON.
func JSONValue[T any](name string) collcodec.ValueCodec[T] {
	return jsonValue[T]{name: name}
}

func (v jsonValue[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (v jsonValue[T]) Decode(b []byte) (T, error) {
	var value T
	if err := json.Unmarshal(b, &value); err != nil {
		return value, fmt.Errorf("decode %s: %w", v.name, err)
	}
	return value, nil
}

func (v jsonValue[T]) EncodeJSON(value T) ([]byte, error) {
	return v.Encode(value)
}

func (v jsonValue[T]) DecodeJSON(b []byte) (T, error) {
	return v.Decode(b)
}

func (v jsonValue[T]) Stringify(value T) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%+v", value)
	}
	return string(raw)
}

func (v jsonValue[T]) ValueType() string {
	return "stacksguard/json/" + v.name
}
