package eventbus

// PublishConfigReloaded publishes a config.reloaded event.
func (bus *EventBus) PublishConfigReloaded(p ConfigReloadedPayload) {
	bus.send(EventConfigReloaded, p)
}

// SubscribeConfigReloaded registers fn for config.reloaded events.
func (bus *EventBus) SubscribeConfigReloaded(fn func(ConfigReloadedPayload)) {
	bus.subscribe(EventConfigReloaded, func(p any) { fn(p.(ConfigReloadedPayload)) })
}

// PublishContextChanged publishes a context.changed event.
func (bus *EventBus) PublishContextChanged(p ContextChangedPayload) {
	bus.send(EventContextChanged, p)
}

// SubscribeContextChanged registers fn for context.changed events.
func (bus *EventBus) SubscribeContextChanged(fn func(ContextChangedPayload)) {
	bus.subscribe(EventContextChanged, func(p any) { fn(p.(ContextChangedPayload)) })
}

// PublishPreviewActivated publishes a preview.activated event.
func (bus *EventBus) PublishPreviewActivated(p PreviewActivatedPayload) {
	bus.send(EventPreviewActivated, p)
}

// SubscribePreviewActivated registers fn for preview.activated events.
func (bus *EventBus) SubscribePreviewActivated(fn func(PreviewActivatedPayload)) {
	bus.subscribe(EventPreviewActivated, func(p any) { fn(p.(PreviewActivatedPayload)) })
}

// PublishPreviewDisposed publishes a preview.disposed event.
func (bus *EventBus) PublishPreviewDisposed(p PreviewDisposedPayload) {
	bus.send(EventPreviewDisposed, p)
}

// SubscribePreviewDisposed registers fn for preview.disposed events.
func (bus *EventBus) SubscribePreviewDisposed(fn func(PreviewDisposedPayload)) {
	bus.subscribe(EventPreviewDisposed, func(p any) { fn(p.(PreviewDisposedPayload)) })
}

// PublishPreviewOpened publishes a preview.opened event.
func (bus *EventBus) PublishPreviewOpened(p PreviewOpenedPayload) {
	bus.send(EventPreviewOpened, p)
}

// SubscribePreviewOpened registers fn for preview.opened events.
func (bus *EventBus) SubscribePreviewOpened(fn func(PreviewOpenedPayload)) {
	bus.subscribe(EventPreviewOpened, func(p any) { fn(p.(PreviewOpenedPayload)) })
}

// PublishPreviewRestored publishes a preview.restored event.
func (bus *EventBus) PublishPreviewRestored(p PreviewRestoredPayload) {
	bus.send(EventPreviewRestored, p)
}

// SubscribePreviewRestored registers fn for preview.restored events.
func (bus *EventBus) SubscribePreviewRestored(fn func(PreviewRestoredPayload)) {
	bus.subscribe(EventPreviewRestored, func(p any) { fn(p.(PreviewRestoredPayload)) })
}
