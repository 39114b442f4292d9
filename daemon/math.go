/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package daemon

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/eclesh/welford"
)

// MathHelp is a help message used by flags in main
const MathHelp = `When composing the -error and -drift formulas, here is what you can do:
supported operations:
  evaluation is done with govaluate, please check https://github.com/Knetic/govaluate/blob/master/MANUAL.md
supported variables:
  residual (list of last differences between hardware and extrapolated time at resync, in ns)
  residualabs (list of last residuals, abs values)
  drift (list of last drift estimates, in PPB)
  driftchange (list of last changes in drift)
supported functions:
  abs(value) - absolute value of single float64, for example abs(-1) = 1
  mean(values, number) - mean of list of 'number' values, for example mean(residual, 10) will take 10 elements from array 'residual' and return mean for those values
  variance(values, number) - variance of list of 'number' values, for example variance(residual, 10) will take 10 elements from array 'residual' and return variance for those values
  stddev(values, number) - standard deviation of list of 'number' values, for example stddev(residual, 10) will take 10 elements from array 'residual' and return standard deviation for those values`

const (
	// MathDefaultHistory is a default number of samples to keep
	MathDefaultHistory = 10
	// MathDefaultError is a default formula to calculate error bound of the clock
	MathDefaultError = "abs(mean(residual, 10)) + 3.0 * stddev(residual, 10)"
	// MathDefaultDrift is a default formula to calculate holdover drift
	MathDefaultDrift = "abs(mean(drift, 10)) + 1.5 * mean(driftchange, 9)"
)

// Math stores our math expressions in two forms: string and parsed
type Math struct {
	Error     string // error bound of the clock in ns
	errorExpr *govaluate.EvaluableExpression
	Drift     string // drift in PPB, for holdover calculations
	driftExpr *govaluate.EvaluableExpression
}

// Prepare will prepare all math expressions
func (m *Math) Prepare() error {
	var err error
	m.errorExpr, err = prepareExpression(m.Error)
	if err != nil {
		return fmt.Errorf("evaluating Error: %w", err)
	}
	m.driftExpr, err = prepareExpression(m.Drift)
	if err != nil {
		return fmt.Errorf("evaluating Drift: %w", err)
	}
	return nil
}

func mean(input []float64) float64 {
	s := welford.New()
	for _, v := range input {
		s.Add(v)
	}
	return s.Mean()
}

func variance(input []float64) float64 {
	s := welford.New()
	for _, v := range input {
		s.Add(v)
	}
	return s.Variance()
}

func stddev(input []float64) float64 {
	s := welford.New()
	for _, v := range input {
		s.Add(v)
	}
	return s.Stddev()
}

var supportedVariables = []string{
	"residual",
	"residualabs",
	"drift",
	"driftchange",
}

func isSupportedVar(varName string) bool {
	for _, v := range supportedVariables {
		if v == varName {
			return true
		}
	}
	return false
}

func listArgs(name string, args []interface{}) ([]float64, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: wrong number of arguments: want 2, got %d", name, len(args))
	}
	vals, ok := args[0].([]float64)
	if !ok {
		return nil, fmt.Errorf("%s: first argument must be a list", name)
	}
	n, ok := args[1].(float64)
	if !ok {
		return nil, fmt.Errorf("%s: second argument must be a number", name)
	}
	if nSamples := int(n); nSamples < len(vals) {
		return vals[:nSamples], nil
	}
	return vals, nil
}

// all the functions we support in expressions
var functions = map[string]govaluate.ExpressionFunction{
	"abs": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("abs: wrong number of arguments: want 1, got %d", len(args))
		}
		val, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("abs: argument must be a number")
		}
		return math.Abs(val), nil
	},
	"mean": func(args ...interface{}) (interface{}, error) {
		vals, err := listArgs("mean", args)
		if err != nil {
			return nil, err
		}
		return mean(vals), nil
	},
	"variance": func(args ...interface{}) (interface{}, error) {
		vals, err := listArgs("variance", args)
		if err != nil {
			return nil, err
		}
		return variance(vals), nil
	},
	"stddev": func(args ...interface{}) (interface{}, error) {
		vals, err := listArgs("stddev", args)
		if err != nil {
			return nil, err
		}
		return stddev(vals), nil
	},
}

func prepareExpression(exprStr string) (*govaluate.EvaluableExpression, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(exprStr, functions)
	if err != nil {
		return nil, err
	}
	for _, v := range expr.Vars() {
		if !isSupportedVar(v) {
			return nil, fmt.Errorf("unsupported variable %q", v)
		}
	}
	return expr, nil
}

// prepareMathParameters turns data points, newest first, into expression variables
func prepareMathParameters(lastN []*DataPoint) map[string][]float64 {
	size := len(lastN)
	residuals := make([]float64, size)
	residualsAbs := make([]float64, size)
	drifts := make([]float64, size)
	driftChanges := []float64{}
	for i, dp := range lastN {
		residuals[i] = dp.ResidualNS
		residualsAbs[i] = math.Abs(dp.ResidualNS)
		drifts[i] = dp.DriftPPB
		if i != 0 {
			driftChanges = append(driftChanges, math.Abs(lastN[i-1].DriftPPB-dp.DriftPPB))
		}
	}
	return map[string][]float64{
		"residual":    residuals,
		"residualabs": residualsAbs,
		"drift":       drifts,
		"driftchange": driftChanges,
	}
}

func mapOfInterface(m map[string][]float64) map[string]interface{} {
	mm := make(map[string]interface{}, len(m))
	for k, v := range m {
		mm[k] = v
	}
	return mm
}

func evaluate(expr *govaluate.EvaluableExpression, params map[string]interface{}) (float64, error) {
	raw, err := expr.Evaluate(params)
	if err != nil {
		return 0, err
	}
	v, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("expression %q returned %T, not a number", expr.String(), raw)
	}
	return v, nil
}
