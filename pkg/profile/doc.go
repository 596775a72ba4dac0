// Package profile resolves named bundles of processor configuration.
//
// A [Profile] carries generator, enricher and watcher [processor.Config]s.
// Profiles with the same name may be defined in several layers: the default
// sources (see [SourceEnumerator]) and a profile file in a user directory. A
// [Resolver] gathers every record for a name, sorts them by [Profile.Order]
// (highest first) and folds them with [Merge]. A profile may name a
// ParentProfile, whose configuration it inherits for keys it does not set
// itself.
//
// Only one level of inheritance is resolved: the parent is looked up like any
// other profile, but its own parent reference is not followed.
package profile
