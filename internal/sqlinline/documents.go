package sqlinline

const QInsertDocument = `--sql fa53079e-72b1-4ffd-babe-7dd8886265b5
insert into documents (auth_id, companion_id, document_type, storage_path, public_url, created_at, updated_at)
values ($1::text, $2::uuid, $3::text, $4::text, $5::text, now(), now())
returning id, created_at, updated_at;
`

const QListDocumentsByAuthID = `--sql b2dfeec1-5280-4aae-bc53-33100dad46b6
select id, auth_id, companion_id, document_type, storage_path, public_url, verified, verification_date, notes, created_at, updated_at
from documents
where auth_id = $1::text
order by created_at desc;
`

const QDocumentTypesByAuthID = `--sql d55769e4-098b-443a-b869-bcb73238ac0d
select distinct document_type
from documents
where auth_id = $1::text;
`
