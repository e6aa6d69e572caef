// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package channel

import (
	"github.com/amqp091/amqp091-go-core/internal/frame"
	"github.com/amqp091/amqp091-go-core/internal/wire"
)

// ExchangeOptions configures Exchange.Declare. Defaults:
// durable=true, passive/auto_delete/internal=false.
type ExchangeOptions struct {
	Passive    bool
	Durable    bool
	AutoDelete bool
	Internal   bool
	Arguments  wire.Table
}

var defaultExchangeOptions = ExchangeOptions{Durable: true}

// ExchangeOption configures an Exchange.Declare call.
type ExchangeOption func(*ExchangeOptions)

func WithExchangePassive() ExchangeOption    { return func(o *ExchangeOptions) { o.Passive = true } }
func WithExchangeDurable() ExchangeOption    { return func(o *ExchangeOptions) { o.Durable = true } }
func WithExchangeAutoDelete() ExchangeOption { return func(o *ExchangeOptions) { o.AutoDelete = true } }
func WithExchangeInternal() ExchangeOption   { return func(o *ExchangeOptions) { o.Internal = true } }

// WithExchangeTransient overrides the durable-by-default setting,
// declaring a non-durable exchange.
func WithExchangeTransient() ExchangeOption { return func(o *ExchangeOptions) { o.Durable = false } }
func WithExchangeArguments(args wire.Table) ExchangeOption {
	return func(o *ExchangeOptions) { o.Arguments = args }
}

// QueueOptions configures Queue.Declare. Defaults mirror Exchange.Declare:
// durable=true, others=false.
type QueueOptions struct {
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	Arguments  wire.Table
}

var defaultQueueOptions = QueueOptions{Durable: true}

// QueueOption configures a Queue.Declare call.
type QueueOption func(*QueueOptions)

func WithQueuePassive() QueueOption    { return func(o *QueueOptions) { o.Passive = true } }
func WithQueueDurable() QueueOption    { return func(o *QueueOptions) { o.Durable = true } }
func WithQueueExclusive() QueueOption  { return func(o *QueueOptions) { o.Exclusive = true } }
func WithQueueAutoDelete() QueueOption { return func(o *QueueOptions) { o.AutoDelete = true } }

// WithQueueTransient overrides the durable-by-default setting, declaring
// a non-durable queue.
func WithQueueTransient() QueueOption { return func(o *QueueOptions) { o.Durable = false } }
func WithQueueArguments(args wire.Table) QueueOption {
	return func(o *QueueOptions) { o.Arguments = args }
}

// BindOptions configures Queue.Bind / Queue.Unbind.
type BindOptions struct {
	Arguments wire.Table
}

var defaultBindOptions = BindOptions{}

// BindOption configures a Queue.Bind/Unbind call.
type BindOption func(*BindOptions)

func WithBindArguments(args wire.Table) BindOption {
	return func(o *BindOptions) { o.Arguments = args }
}

// ConsumeOptions configures Basic.Consume.
type ConsumeOptions struct {
	ConsumerTag string
	NoAck       bool
	Exclusive   bool
	NoLocal     bool
	Arguments   wire.Table
}

var defaultConsumeOptions = ConsumeOptions{}

// ConsumeOption configures a Basic.Consume call.
type ConsumeOption func(*ConsumeOptions)

func WithConsumerTag(tag string) ConsumeOption {
	return func(o *ConsumeOptions) { o.ConsumerTag = tag }
}
func WithConsumeNoAck() ConsumeOption     { return func(o *ConsumeOptions) { o.NoAck = true } }
func WithConsumeExclusive() ConsumeOption { return func(o *ConsumeOptions) { o.Exclusive = true } }
func WithConsumeNoLocal() ConsumeOption   { return func(o *ConsumeOptions) { o.NoLocal = true } }

// publishState configures Basic.Publish's flags and content-header
// properties.
type publishState struct {
	Mandatory  bool
	Immediate  bool
	Properties frame.Properties
}

// PublishOption configures a Publish call.
type PublishOption func(*publishState)

func WithMandatory() PublishOption { return func(o *publishState) { o.Mandatory = true } }
func WithImmediate() PublishOption { return func(o *publishState) { o.Immediate = true } }

func WithContentType(v string) PublishOption {
	return func(o *publishState) { o.Properties.HasContentType, o.Properties.ContentType = true, v }
}
func WithContentEncoding(v string) PublishOption {
	return func(o *publishState) { o.Properties.HasContentEncoding, o.Properties.ContentEncoding = true, v }
}
func WithDeliveryMode(v byte) PublishOption {
	return func(o *publishState) { o.Properties.HasDeliveryMode, o.Properties.DeliveryMode = true, v }
}
func WithPriority(v byte) PublishOption {
	return func(o *publishState) { o.Properties.HasPriority, o.Properties.Priority = true, v }
}
func WithCorrelationID(v string) PublishOption {
	return func(o *publishState) { o.Properties.HasCorrelationID, o.Properties.CorrelationID = true, v }
}
func WithReplyTo(v string) PublishOption {
	return func(o *publishState) { o.Properties.HasReplyTo, o.Properties.ReplyTo = true, v }
}
func WithMessageID(v string) PublishOption {
	return func(o *publishState) { o.Properties.HasMessageID, o.Properties.MessageID = true, v }
}
func WithHeaders(v wire.Table) PublishOption {
	return func(o *publishState) { o.Properties.HasHeaders, o.Properties.Headers = true, v }
}
func WithExpiration(v string) PublishOption {
	return func(o *publishState) { o.Properties.HasExpiration, o.Properties.Expiration = true, v }
}

// WithTimestamp sets the message timestamp in seconds since the Unix epoch.
func WithTimestamp(v uint64) PublishOption {
	return func(o *publishState) { o.Properties.HasTimestamp, o.Properties.Timestamp = true, v }
}
func WithType(v string) PublishOption {
	return func(o *publishState) { o.Properties.HasType, o.Properties.Type = true, v }
}
func WithUserID(v string) PublishOption {
	return func(o *publishState) { o.Properties.HasUserID, o.Properties.UserID = true, v }
}
func WithAppID(v string) PublishOption {
	return func(o *publishState) { o.Properties.HasAppID, o.Properties.AppID = true, v }
}
