/*
Package ports defines the driven ports (interfaces) of the lexfsm engine.

These interfaces decouple the Table Loader from where descriptions live, so the
same compiler can read definitions from a directory, memory or Redis.

# Key Interfaces

  - DescriptionLoader: retrieves raw description bytes by name.
  - DescriptionStore: a DescriptionLoader that can also publish and remove descriptions.
*/
package ports
