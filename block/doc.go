// Package block fits stochastic blockmodels to simple undirected graphs.
//
// A blockmodel assigns every vertex to one of k groups and explains the
// edges of the graph by the group pairs of their endpoints. Two variants
// are provided: Undirected, where each vertex pair is a Bernoulli trial
// with a per-group-pair probability, and DegreeCorrected, the Poisson model
// of Karrer and Newman that also accounts for vertex degrees.
//
// Both keep the group sizes and the group-pair edge count matrix up to date
// under single-vertex moves in O(degree), and cache their log-likelihood
// until the next move. Searches over assignments are driven by a Strategy:
//
//   - Greedy: synchronous sweeps towards a local optimum (Undirected only)
//   - MetropolisHastings: single-site MCMC with uniform proposals
//   - Gibbs: exact single-site Gibbs updates
//
// Models are not safe for concurrent use. See the fit package for the
// driver that runs a chain to convergence.
package block
