package modules

import "github.com/ddliu/motto"

// assertSource is the built-in assert module available to every test
// file via require('assert') / import from 'assert'.
const assertSource = `
function fail(message, fallback) {
	throw new Error(message || fallback);
}

function ok(value, message) {
	if (!value) {
		fail(message, 'expected value to be truthy');
	}
}

function equal(actual, expected, message) {
	if (actual != expected) {
		fail(message, 'expected ' + JSON.stringify(actual) + ' to equal ' + JSON.stringify(expected));
	}
}

function strictEqual(actual, expected, message) {
	if (actual !== expected) {
		fail(message, 'expected ' + JSON.stringify(actual) + ' to strictly equal ' + JSON.stringify(expected));
	}
}

function notEqual(actual, expected, message) {
	if (actual == expected) {
		fail(message, 'expected ' + JSON.stringify(actual) + ' to differ from ' + JSON.stringify(expected));
	}
}

function throws(fn, message) {
	try {
		fn();
	} catch (err) {
		return;
	}
	fail(message, 'expected function to throw');
}

module.exports = {
	ok: ok,
	equal: equal,
	strictEqual: strictEqual,
	notEqual: notEqual,
	throws: throws,
	fail: function(message) { fail(message, 'failed'); }
};
`

// registerBuiltins registers the modules available to every test file
// loaded by one VM.
func registerBuiltins(vm *motto.Motto) {
	vm.AddModule("assert", motto.CreateLoaderFromSource(assertSource, "assert.js"))
}
