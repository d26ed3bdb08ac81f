package postgres

const insertActivitySQL = `
INSERT INTO user_activity (
  id, user_id, activity_type, product_id, query, stall_id, occurred_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)
`

const selectRecentActivitySQL = `
SELECT id, user_id, activity_type, product_id, query, stall_id, occurred_at
FROM user_activity
WHERE user_id = $1 AND occurred_at >= $2
`

const countViewsSQL = `
SELECT product_id, COUNT(*)
FROM user_activity
WHERE activity_type = 'view'
  AND product_id = ANY($1)
  AND occurred_at >= $2
GROUP BY product_id
`

const selectProductColumns = `
SELECT id, title, description, category, price, seller_id, image_url,
       image_avg_r, image_avg_g, image_avg_b, image_ahash, created_at
FROM products
`

const selectAllProductsSQL = selectProductColumns + `ORDER BY created_at DESC`

const selectProductsBySellerSQL = selectProductColumns + `WHERE seller_id = $1
ORDER BY created_at DESC`

const updateImageFeaturesSQL = `
UPDATE products SET
  image_avg_r=$2, image_avg_g=$3, image_avg_b=$4, image_ahash=$5
WHERE id=$1
`
