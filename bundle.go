package inject

import "fmt"

// Offering is a bundle type a provider makes available to descendant
// consumers. Build one with Bundle.
type Offering struct {
	bundle   string
	discover func(r *Resolver, root Node) ([]recipient, error)
}

// Bundle offers value to every descendant Consumer[I]. I is usually an
// interface the provider implements; the provider passes itself as value.
func Bundle[I any](value I) Offering {
	name := typeName[I]()
	return Offering{
		bundle: name,
		discover: func(r *Resolver, root Node) ([]recipient, error) {
			consumers, err := ResolveAll[Consumer[I]](r, nil, IncludeInactive(true), Uncached())
			if err != nil {
				return nil, err
			}
			recipients := make([]recipient, 0, len(consumers))
			for _, consumer := range consumers {
				recipients = append(recipients, recipient{
					bundle:   name,
					consumer: fmt.Sprintf("%T", consumer),
					deliver: func() error {
						return consumer.Deliver(root, value)
					},
					notify: consumer.NotifyAllInitialized,
				})
			}
			return recipients, nil
		},
	}
}

// Name returns the bundle type name.
func (o Offering) Name() string {
	return o.bundle
}

// recipient is one discovered consumer of one bundle type.
type recipient struct {
	bundle   string
	consumer string
	deliver  func() error
	notify   func() error
}
